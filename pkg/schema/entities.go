package schema

// QuizInput is the sanitized, validated quiz record handed to the pipeline.
// Validation happens upstream; the pipeline never re-checks these fields.
type QuizInput struct {
	ChildName        string   `json:"childName"`
	ChildAge         string   `json:"childAge"`
	ChildTraits      []string `json:"childTraits"`
	FavoriteThings   []string `json:"favoriteThings"`
	StoryType        string   `json:"storyType"`
	StoryDescription string   `json:"storyDescription,omitempty"`
	ParentEmail      string   `json:"parentEmail,omitempty"`
	ParentConsent    bool     `json:"parentConsent,omitempty"`
}

// SecondaryCharacter is one supporting character pulled out of the story text.
type SecondaryCharacter struct {
	Name       string `json:"name" jsonschema_description:"Character name exactly as it appears in the story"`
	Role       string `json:"role" jsonschema_description:"Short role description, e.g. 'wise old owl' or 'lost rabbit'"`
	Importance int    `json:"importance" jsonschema:"minimum=1,maximum=10" jsonschema_description:"How central the character is to the story, 1-10"`
}

// ExtractedCharacters is the structured-outputs envelope for character
// extraction. The model may also return a bare array; both are accepted.
type ExtractedCharacters struct {
	Characters []SecondaryCharacter `json:"characters" jsonschema_description:"Secondary characters in descending order of importance"`
}

// CharacterProfile pairs a character name with its visual-consistency
// description. The main character's profile carries no name.
type CharacterProfile struct {
	Name    string `json:"name,omitempty"`
	Profile string `json:"profile"`
}

// Page is one unit of the final book: a paragraph and its illustration.
// ImageBase64 stays empty until the image stage fills it in.
type Page struct {
	Text        string `json:"text"`
	ImageBase64 string `json:"imageBase64,omitempty"`
}

// StoryResult is the final pipeline payload. CharacterProfile holds the
// composed design document, not just the main character's profile.
type StoryResult struct {
	StoryText        string `json:"storyText"`
	Pages            []Page `json:"pages"`
	CharacterProfile string `json:"characterProfile"`
}
