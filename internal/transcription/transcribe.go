// Package transcription turns meeting recordings into text with a generative model.
package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"strings"

	"github.com/jonathan/committee-minutes/internal/llm"
	"github.com/jonathan/committee-minutes/internal/prompts"
	"github.com/jonathan/committee-minutes/internal/types"
)

// DefaultLanguage is the language committee meetings are held in.
const DefaultLanguage = "French"

// Request describes a recording to transcribe.
type Request struct {
	MeetingID  string
	DocumentID string
	Audio      llm.Media
	// Title and Agenda help the model with proper nouns; both are optional.
	Title  string
	Agenda []string
}

// Transcriber transcribes recordings.
type Transcriber struct {
	client   llm.Client
	tier     llm.ModelTier
	language string
}

// New creates a transcriber using the given model tier.
func New(client llm.Client, tier llm.ModelTier) *Transcriber {
	return &Transcriber{client: client, tier: tier, language: DefaultLanguage}
}

// modelResponse is the JSON shape requested from the model.
type modelResponse struct {
	Text     string                    `json:"text"`
	Segments []types.TranscriptSegment `json:"segments"`
}

// Transcribe sends the recording to the model and returns the transcript.
// The transcript is not persisted.
func (t *Transcriber) Transcribe(ctx context.Context, req Request) (*types.Transcript, error) {
	if err := validateAudio(req.Audio); err != nil {
		return nil, err
	}

	prompt, err := t.buildPrompt(req)
	if err != nil {
		return nil, err
	}

	raw, err := t.client.GenerateJSONFromMedia(ctx, prompt, req.Audio, t.tier)
	if err != nil {
		return nil, &APICallError{Message: "failed to transcribe recording", Cause: err}
	}

	transcript, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}
	transcript.MeetingID = req.MeetingID
	transcript.DocumentID = req.DocumentID
	transcript.Model = t.client.GetModel(t.tier)
	return transcript, nil
}

func (t *Transcriber) buildPrompt(req Request) (string, error) {
	meetingContext := ""
	if req.Title != "" || len(req.Agenda) > 0 {
		agenda := strings.Join(req.Agenda, "; ")
		if agenda == "" {
			agenda = "not provided"
		}
		c, err := prompts.Render(prompts.TranscriptionFile, "meeting-context", map[string]string{
			"Title":  req.Title,
			"Agenda": agenda,
		})
		if err != nil {
			return "", err
		}
		meetingContext = c
	}

	return prompts.Render(prompts.TranscriptionFile, "transcribe-meeting", map[string]string{
		"Language": t.language,
		"Context":  meetingContext,
	})
}

func validateAudio(audio llm.Media) error {
	if len(audio.Data) == 0 {
		return ErrEmptyAudio
	}
	if len(audio.Data) > llm.MaxInlineMediaBytes {
		return ErrAudioTooLarge
	}
	mediaType, _, err := mime.ParseMediaType(audio.MIMEType)
	if err != nil || !(strings.HasPrefix(mediaType, "audio/") || strings.HasPrefix(mediaType, "video/")) {
		return fmt.Errorf("%w: %q", ErrUnsupportedAudio, audio.MIMEType)
	}
	return nil
}

func parseResponse(raw string) (*types.Transcript, error) {
	var resp modelResponse
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &resp); err != nil {
		return nil, &ParseError{Message: "response is not valid JSON", Cause: err}
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		lines := make([]string, 0, len(resp.Segments))
		for _, s := range resp.Segments {
			if s.Speaker != "" {
				lines = append(lines, s.Speaker+" : "+s.Text)
			} else {
				lines = append(lines, s.Text)
			}
		}
		text = strings.TrimSpace(strings.Join(lines, "\n"))
	}
	if text == "" {
		return nil, &ParseError{Message: "response contains no text"}
	}

	return &types.Transcript{Text: text, Segments: resp.Segments}, nil
}
