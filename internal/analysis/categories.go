package analysis

// Category names one fixed analysis angle.
type Category string

const (
	GeneralAnalysis Category = "General Analysis"
	Experience      Category = "Experience"
	Research        Category = "Research"
	Leadership      Category = "Leadership & Entrepreneurship"
)

var orderedCategories = []Category{GeneralAnalysis, Experience, Research, Leadership}

var systemPrompts = map[Category]string{
	GeneralAnalysis: "You are a LinkedIn profile analyzer. Provide a holistic and insightful analysis of the user's profile, " +
		"covering key strengths, experiences, and skills. Keep the response structured and professional, highlighting the most " +
		"relevant aspects succinctly. Give a score out of 10 on the Overall profile well as one sentence of justification at the beginning.",
	Experience: "You are a LinkedIn profile analyzer looking for people specifically regarding their experiences. Keep your analysis " +
		"brief and concise but detailed. Maintain objectivity and format it in such a way that each experience is given a brief but " +
		"detailed description (including numbers, action words, etc) of things this person has done. Give a score out of 10 on " +
		"Experience as well as one sentence of justification at the beginning.",
	Research: "You are a profile analyzer in evaluating research backgrounds. Analyze the profile with a focus on academic and industry " +
		"research experience. Highlight key publications, research projects, and contributions to the field. Format the response to " +
		"emphasize major achievements and areas of expertise. Give a score out of 10 on Research as well as one sentence of " +
		"justification at the beginning.",
	Leadership: "You are a profile analyzer that evaluates leadership and entrepreneurial qualities. Analyze the profile based on " +
		"leadership roles, initiatives taken, and entrepreneurial endeavors. Emphasize strategic decision-making, team management, and " +
		"impact created. Format the response with clear sections on leadership experiences and entrepreneurial ventures. Give a score " +
		"out of 10 on Leadership and Entreprenurship as well as one sentence of justification at the beginning.",
}

// Categories returns every category in display order.
func Categories() []Category {
	out := make([]Category, len(orderedCategories))
	copy(out, orderedCategories)
	return out
}

// SystemPrompt returns the instruction bound to the category.
func (c Category) SystemPrompt() string {
	return systemPrompts[c]
}

// ParseCategory matches a category by its display name.
func ParseCategory(name string) (Category, bool) {
	for _, c := range orderedCategories {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}
