package entity

// Normalize truncates every timestamp of the user to microseconds in UTC.
func (u *User) Normalize() {
	u.Audit.Normalize()
	u.LastLoginAt = NormalizeTimePtr(u.LastLoginAt)
}

// Normalize truncates every timestamp of the place to microseconds in UTC.
func (p *Place) Normalize() {
	p.Audit.Normalize()
}

// Normalize truncates every timestamp of the plan to microseconds in UTC.
func (p *TravelPlan) Normalize() {
	p.Audit.Normalize()
	p.StartDate = NormalizeTime(p.StartDate)
	p.EndDate = NormalizeTime(p.EndDate)
}

// Normalize truncates every timestamp of the item to microseconds in UTC.
func (i *ItineraryItem) Normalize() {
	i.Audit.Normalize()
	i.StartTime = NormalizeTimePtr(i.StartTime)
	i.EndTime = NormalizeTimePtr(i.EndTime)
}

// Normalize truncates every timestamp of the review to microseconds in UTC.
func (r *Review) Normalize() {
	r.Audit.Normalize()
	r.VisitDate = NormalizeTimePtr(r.VisitDate)
}

// Normalize truncates every timestamp of the saved plan to microseconds in UTC.
func (s *SavedPlan) Normalize() {
	s.Audit.Normalize()
}
