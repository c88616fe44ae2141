package userstory

// DefaultPriority is applied when a story is created without one.
const DefaultPriority = "medium"

type UserStory struct {
	ID                 string   `json:"id" yaml:"id"`
	AsA                string   `json:"as_a" yaml:"as_a"`
	IWant              string   `json:"i_want" yaml:"i_want"`
	SoThat             string   `json:"so_that" yaml:"so_that"`
	AcceptanceCriteria []string `json:"acceptance_criteria" yaml:"acceptance_criteria"`
	Priority           string   `json:"priority" yaml:"priority"`
}
