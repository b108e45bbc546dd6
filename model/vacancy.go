package model

// VacancyResult is the outcome of one vacancy lookup. Error is set only when
// the portal reported itself unavailable.
type VacancyResult struct {
	Indexes []VacancyIndex `json:"indexes"`
	Error   *string        `json:"error"`
}

// VacancyIndex is one registration index with its vacancy counts.
type VacancyIndex struct {
	Index    string         `json:"index"`
	Vacancy  int            `json:"vacancy"`
	Waitlist int            `json:"waitlist"`
	Classes  []VacancyClass `json:"classes"`
}

// VacancyClass is one class session listed under an index.
type VacancyClass struct {
	Type  string `json:"type"`
	Group string `json:"group"`
	Day   string `json:"day"`
	Time  string `json:"time"`
	Venue string `json:"venue"`
}
