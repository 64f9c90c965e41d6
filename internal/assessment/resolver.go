package assessment

// MatchTier is the confidence label attached to a recommendation.
type MatchTier string

const (
	HighMatch   MatchTier = "HighMatch"
	MediumMatch MatchTier = "MediumMatch"
)

// Label is the badge text shown next to a recommendation.
func (m MatchTier) Label() string {
	switch m {
	case HighMatch:
		return "High Match"
	case MediumMatch:
		return "Medium Match"
	}
	return string(m)
}

// Icon tags name the glyph drawn beside a recommendation.
const (
	IconBriefcase     = "briefcase"
	IconFileCheck     = "file-check"
	IconGraduationCap = "graduation-cap"
	IconUsers         = "users"
	IconBuilding      = "building"
)

// MaxRecommendations caps the resolver output.
const MaxRecommendations = 3

// Recommendation is one immigration pathway suggested by Resolve.
type Recommendation struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Match       MatchTier `json:"match"`
}

func expressEntry() Recommendation {
	return Recommendation{
		Title:       "Express Entry",
		Description: "Based on your profile, you may be eligible for the Federal Skilled Worker Program through Express Entry.",
		Icon:        IconBriefcase,
		Match:       HighMatch,
	}
}

func lmiaWorkPermit() Recommendation {
	return Recommendation{
		Title:       "LMIA Work Permit",
		Description: "With a job offer, you could pursue an LMIA-based work permit for faster entry.",
		Icon:        IconFileCheck,
		Match:       HighMatch,
	}
}

func studyPermit() Recommendation {
	return Recommendation{
		Title:       "Study Permit",
		Description: "A study permit is your pathway to Canadian education with potential PR pathways after graduation.",
		Icon:        IconGraduationCap,
		Match:       HighMatch,
	}
}

func familySponsorship() Recommendation {
	return Recommendation{
		Title:       "Family Sponsorship",
		Description: "If you have close relatives in Canada, family sponsorship may be the right path for you.",
		Icon:        IconUsers,
		Match:       HighMatch,
	}
}

func startUpVisa() Recommendation {
	return Recommendation{
		Title:       "Start-up Visa Program",
		Description: "For entrepreneurs, the Start-up Visa program offers permanent residency for innovative business ideas.",
		Icon:        IconBuilding,
		Match:       MediumMatch,
	}
}

func provincialNominee() Recommendation {
	return Recommendation{
		Title:       "Provincial Nominee Programs",
		Description: "Consider PNP streams that may align with your skills and target province.",
		Icon:        IconFileCheck,
		Match:       MediumMatch,
	}
}

// Resolve maps answers to at most three recommendations. Only Purpose and
// HasJobOffer are read.
func Resolve(a Answers) []Recommendation {
	out := make([]Recommendation, 0, MaxRecommendations)

	switch a.Purpose {
	case PurposeWork:
		out = append(out, expressEntry())
		if a.HasJobOffer == Yes {
			out = append(out, lmiaWorkPermit())
		}
	case PurposeStudy:
		out = append(out, studyPermit())
	case PurposeFamily:
		out = append(out, familySponsorship())
	case PurposeBusiness:
		out = append(out, startUpVisa())
	}

	out = append(out, provincialNominee())

	if len(out) > MaxRecommendations {
		out = out[:MaxRecommendations]
	}
	return out
}
