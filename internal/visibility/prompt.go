package visibility

import "fmt"

// BuildPrompt renders the fixed probe prompt. It asks for an overview and an
// explicit statement of recognition so mention parsing has something to grab.
func BuildPrompt(brand, industry string) string {
	if industry != "" {
		return fmt.Sprintf(
			"What is %s? Give me a brief overview. It operates in the %s space. If you are not familiar with it, say so explicitly.",
			brand, industry)
	}
	return fmt.Sprintf(
		"What is %s? Give me a brief overview. If you are not familiar with it, say so explicitly.",
		brand)
}
