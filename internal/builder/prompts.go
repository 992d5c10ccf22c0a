package builder

import (
	"encoding/json"
	"fmt"

	"site-builder/internal/history"
	"site-builder/internal/profile"
)

const (
	visionSystemPrompt = "You are a helpful assistant that describes images."
	visionQuestion     = "What kind of image is this and what is its use?"

	generatedTurnUser = "Generated website"
	generatedTurnBot  = "Your website has been generated successfully! You can find the files in your user directory."
)

const chatPromptTemplate = `You are a helpful assistant that talks to users to understand and build their ideal website.

Here is the existing chat history:
%s

Here is the current user profile:
%s

Your goals:
- Ask relevant questions to understand the user's needs for their website.
- Update the profile accordingly.
- If the user asks to change something (e.g. color, layout), update "updateRequests".
- Be friendly and interactive, and make sure to guide the user step by step.
- If user is asking something or requests changes, respond helpfully and then ask the next relevant question.
- Respond ONLY in this JSON format:
{ "nextQuestion": "string", "updatedUserProfile": { ... } }
IMPORTANT: Do NOT include any markdown or backticks. Just return the JSON.`

const sitePromptTemplate = `You are a full-stack AI developer. Create a dynamic, multi-page website using only one HTML file, one CSS file, and one JavaScript file. The website must be fully functional and styled using CSS. JavaScript should handle all interactivity and dynamic behavior.

Here is the user's desired website information:
%s
%s

Your task:
- Create the HTML, CSS, and JS files to reflect the user's website preferences.
- Include all required pages and sections if listed.
- Make the site responsive and visually appealing.
- Use clean and modern design, respecting colorScheme, theme, etc.
- If the user has uploaded images, use them in the website.
- Make sure all paths are relative and work with the user's directory structure.

Respond ONLY in this JSON format:
{
  "html": "string",
  "css": "string",
  "js": "string"
}`

func indentJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func chatPrompt(pending history.PendingTurn, p profile.Profile) (string, error) {
	profileJSON, err := indentJSON(p)
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}
	return fmt.Sprintf(chatPromptTemplate, pending.Transcript(), profileJSON), nil
}

func sitePrompt(p profile.Profile, l history.Log) (string, error) {
	profileJSON, err := indentJSON(p)
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}
	if l == nil {
		l = history.Log{}
	}
	historyJSON, err := indentJSON(l)
	if err != nil {
		return "", fmt.Errorf("encode history: %w", err)
	}
	return fmt.Sprintf(sitePromptTemplate, profileJSON, historyJSON), nil
}
