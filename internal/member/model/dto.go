package model

import "sort"

// Experience is a duration of work expressed in years and months.
type Experience struct {
	Years  int `json:"years"`
	Months int `json:"months"`
}

// TotalExperience sums careers, carrying months over into years.
func TotalExperience(careers []Career) Experience {
	total := 0
	for _, c := range careers {
		total += c.Years*12 + c.Months
	}
	return Experience{Years: total / 12, Months: total % 12}
}

// Less orders experience descending: more years first, then more months.
func (e Experience) Less(other Experience) bool {
	if e.Years != other.Years {
		return e.Years > other.Years
	}
	return e.Months > other.Months
}

// CareerItem is a career entry in API responses.
type CareerItem struct {
	Occupation string `json:"occupation"`
	Years      int    `json:"years"`
	Months     int    `json:"months"`
}

// Profile is the public profile of a member.
type Profile struct {
	MemberID              int64        `json:"member_id"`
	Name                  string       `json:"name"`
	Contact               string       `json:"contact"`
	BirthYear             int          `json:"birth_year"`
	HealthSafetyCertified bool         `json:"health_safety_certified"`
	Careers               []CareerItem `json:"careers"`
	Certificates          []string     `json:"certificates"`
	Licenses              []string     `json:"licenses"`
	TotalExperience       Experience   `json:"total_experience"`
}

// SortByExperience orders profiles by total experience, most experienced
// first. Ties keep member id order.
func SortByExperience(profiles []Profile) {
	sort.SliceStable(profiles, func(i, j int) bool {
		a, b := profiles[i].TotalExperience, profiles[j].TotalExperience
		if a != b {
			return a.Less(b)
		}
		return profiles[i].MemberID < profiles[j].MemberID
	})
}

// InterestState is the result of toggling an interest.
type InterestState struct {
	PostID       int64 `json:"post_id"`
	IsInterested bool  `json:"is_interested"`
}
