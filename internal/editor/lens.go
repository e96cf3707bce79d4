package editor

import "cvchef-backend/internal/domain"

// lens maps a field name to the string leaf it addresses. The same accessor
// serves reads and writes.
type lens[T any] map[string]func(*T) *string

func (l lens[T]) set(item *T, field, value string) bool {
	get, ok := l[field]
	if !ok || item == nil {
		return false
	}
	*get(item) = value
	return true
}

var personalInfoLens = lens[domain.PersonalInfo]{
	"fullName":    func(p *domain.PersonalInfo) *string { return &p.FullName },
	"email":       func(p *domain.PersonalInfo) *string { return &p.Email },
	"phoneNumber": func(p *domain.PersonalInfo) *string { return &p.PhoneNumber },
	"linkedin":    func(p *domain.PersonalInfo) *string { return &p.LinkedIn },
	"github":      func(p *domain.PersonalInfo) *string { return &p.GitHub },
	"portfolio":   func(p *domain.PersonalInfo) *string { return &p.Portfolio },
	"address":     func(p *domain.PersonalInfo) *string { return &p.Address },
}

var experienceLens = lens[domain.Experience]{
	"jobTitle":  func(e *domain.Experience) *string { return &e.JobTitle },
	"company":   func(e *domain.Experience) *string { return &e.Company },
	"location":  func(e *domain.Experience) *string { return &e.Location },
	"startDate": func(e *domain.Experience) *string { return &e.StartDate },
	"endDate":   func(e *domain.Experience) *string { return &e.EndDate },
}

var educationLens = lens[domain.Education]{
	"institution":    func(e *domain.Education) *string { return &e.Institution },
	"degree":         func(e *domain.Education) *string { return &e.Degree },
	"fieldOfStudy":   func(e *domain.Education) *string { return &e.FieldOfStudy },
	"graduationDate": func(e *domain.Education) *string { return &e.GraduationDate },
	"gpa":            func(e *domain.Education) *string { return &e.GPA },
}

var customSectionLens = lens[sectionNode]{
	"title":    func(s *sectionNode) *string { return &s.title },
	"subtitle": func(s *sectionNode) *string { return &s.subtitle },
	"content":  func(s *sectionNode) *string { return &s.content },
}

var subSectionLens = lens[domain.CustomSubSection]{
	"subtitle": func(s *domain.CustomSubSection) *string { return &s.Subtitle },
	"content":  func(s *domain.CustomSubSection) *string { return &s.Content },
}
