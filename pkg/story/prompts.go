package story

import (
	"fmt"
	"strings"

	"fable/pkg/schema"
)

const storySystemPrompt = `You are a talented children's book author who creates personalized stories that captivate young readers. Write engaging, age-appropriate stories that make children feel special and loved.`

const extractSystemPrompt = `You are a precise character extraction system for children's stories. Given a story, list every secondary character: any named or clearly identifiable character other than the main character.

**Rules:**
- Return a single JSON object with a root key "characters".
- Each entry has 'name' (as written in the story), 'role' (a short description like "wise old owl" or "younger sister"), and 'importance' (an integer 1-10, 10 being most central to the plot).
- Order the array by descending importance.
- Never include the main character.
- Do not include any commentary or markdown. Output only the raw JSON.

**Example Output:**
{"characters":[{"name":"Oliver the Owl","role":"wise mentor","importance":8},{"name":"Pip","role":"lost rabbit","importance":5}]}`

const profileSystemPrompt = `You are a character designer for children's picture books. You write precise visual reference descriptions that let an illustrator draw the same character identically on every page. Cover hair, eyes, skin, clothing (exact colors and items), build, and any distinctive accessories. Be concrete and specific; avoid personality or plot details. Output plain prose, no markdown.`

// designDocumentTrailer is appended to every composed design document. It is
// part of each illustration prompt, so every page sees the same rule.
const designDocumentTrailer = `CONSISTENCY RULE:
Every character above must look IDENTICAL on every page: same face, same hair, same outfit, same colors. Never change a character's appearance between pages.`

// storyTypeDescriptions maps the quiz's story-type enum onto the phrasing
// used in prompts and progress copy.
var storyTypeDescriptions = map[string]string{
	"everyday-adventure": "A sweet everyday adventure",
	"magical-journey":    "A magical and poetic dream",
	"brave-hero":         "A big mission in an imaginary world",
	"bedtime-story":      "A calm, soothing bedtime story",
}

var storyTones = map[string]string{
	"A sweet everyday adventure":          "warm and comforting",
	"A big mission in an imaginary world": "exciting and adventurous",
	"A magical and poetic dream":          "whimsical and enchanting",
	"A calm, soothing bedtime story":      "peaceful and gentle",
	"A fantastic treasure hunt":           "thrilling and mysterious",
	"A playful learning journey":          "educational and fun",
	"A fun exploration of a new place":    "curious and discovering",
	"An adventure with a talking animal":  "friendly and imaginative",
	"An extraordinary sports competition": "energetic and inspiring",
}

// StoryTypeDescription resolves a quiz story-type value to its prompt
// description, defaulting to the everyday adventure.
func StoryTypeDescription(storyType string) string {
	if d, ok := storyTypeDescriptions[storyType]; ok {
		return d
	}
	return storyTypeDescriptions["everyday-adventure"]
}

func storyTone(description string) string {
	if t, ok := storyTones[description]; ok {
		return t
	}
	return "engaging and positive"
}

func buildStoryPrompt(quiz schema.QuizInput) string {
	themes := strings.Join(quiz.FavoriteThings, ", ")
	if themes == "" {
		themes = "general adventure"
	}
	description := StoryTypeDescription(quiz.StoryType)

	var b strings.Builder
	fmt.Fprintf(&b, `Create a personalized children's story with these specifications:

MAIN CHARACTER:
- Name: %s
- Age: %s
- Personality Traits: %s
- Character Form: An ordinary child in a magical story

STORY DETAILS:
- Story Type: %s
- Core Message: You are unique and special
- Themes to Include: %s
`, quiz.ChildName, quiz.ChildAge, strings.Join(quiz.ChildTraits, ", "), description, themes)

	if quiz.StoryDescription != "" {
		fmt.Fprintf(&b, "- Story Idea from the Parent: %s\n", quiz.StoryDescription)
	}

	fmt.Fprintf(&b, `
REQUIREMENTS:
- Exactly 10 paragraphs (3-4 sentences each)
- Use %[1]s's name at least 15 times throughout
- Age-appropriate vocabulary for %[2]s
- Weave in the selected themes organically
- The story should convey the message: "You are unique and special"
- End with %[1]s embodying the core message
- Maintain a %[3]s tone throughout

Format: Return ONLY the story text, with paragraphs separated by double line breaks.`, quiz.ChildName, quiz.ChildAge, storyTone(description))

	return b.String()
}

func buildExtractPrompt(storyText, mainCharacter string) string {
	return fmt.Sprintf("The main character is %s. Do not include them.\n\nSTORY:\n%s", mainCharacter, storyText)
}

func buildMainProfilePrompt(quiz schema.QuizInput) string {
	return fmt.Sprintf(`Create a visual reference description for the main character of a children's picture book.

- Name: %s
- Age: %s
- Personality: %s
- Setting: %s featuring %s

Describe exactly how this child looks so they can be drawn identically on every page.`,
		quiz.ChildName, quiz.ChildAge, strings.Join(quiz.ChildTraits, ", "),
		StoryTypeDescription(quiz.StoryType), strings.Join(quiz.FavoriteThings, ", "))
}

func buildSecondaryProfilePrompt(char schema.SecondaryCharacter, storyText string, quiz schema.QuizInput) string {
	return fmt.Sprintf(`Create a visual reference description for a supporting character in a children's picture book.

- Name: %s
- Role: %s
- The main character is %s, age %s; this character should visually complement them.

Use the story below for context. Describe exactly how %s looks so they can be drawn identically on every page.

STORY:
%s`, char.Name, char.Role, quiz.ChildName, quiz.ChildAge, char.Name, storyText)
}

// buildImagePrompt composes one per-page illustration prompt: the design
// document, this page's scene (or a fallback when the page has no text),
// and fixed art direction.
func buildImagePrompt(designDocument, pageText string, quiz schema.QuizInput) string {
	tone := StoryTypeDescription(quiz.StoryType)
	scene := pageText
	if scene == "" {
		scene = fmt.Sprintf("A %s scene featuring %s", tone, quiz.ChildName)
	}
	return fmt.Sprintf(`%s

SCENE FOR THIS PAGE:
%s

ARTISTIC DIRECTION:
- Style: Children's book illustration, %s tone
- Composition: Focus on the characters present in this scene
- Themes present: %s
- CRITICAL: Maintain exact character consistency from reference above
- No text or words in the image`,
		designDocument, scene, tone, strings.Join(quiz.FavoriteThings, ", "))
}
