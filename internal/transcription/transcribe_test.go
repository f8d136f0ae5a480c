package transcription

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/committee-minutes/internal/llm"
)

type fakeClient struct {
	response   string
	err        error
	lastPrompt string
	lastMedia  llm.Media
	lastTier   llm.ModelTier
}

func (f *fakeClient) GenerateJSONFromMedia(_ context.Context, prompt string, media llm.Media, tier llm.ModelTier) (string, error) {
	f.lastPrompt, f.lastMedia, f.lastTier = prompt, media, tier
	return f.response, f.err
}

func (f *fakeClient) GetModel(tier llm.ModelTier) string { return llm.DefaultConfig().GetModel(tier) }

func (f *fakeClient) Close() error { return nil }

var audio = llm.Media{MIMEType: "audio/mpeg", Data: []byte("ID3 fake mp3")}

func TestTranscribe(t *testing.T) {
	client := &fakeClient{response: "```json\n" + `{"text": "Bonsoir à tous.", "segments": [{"speaker": "Présidente", "start": "00:00", "text": "Bonsoir à tous."}]}` + "\n```"}
	tr := New(client, llm.TierStandard)

	transcript, err := tr.Transcribe(context.Background(), Request{
		MeetingID: "m1",
		Audio:     audio,
		Title:     "9e assemblée",
		Agenda:    []string{"Apiculture urbaine", "Parc canin"},
	})
	require.NoError(t, err)

	assert.Equal(t, "m1", transcript.MeetingID)
	assert.Equal(t, "Bonsoir à tous.", transcript.Text)
	assert.Equal(t, "gemini-2.5-flash", transcript.Model)
	require.Len(t, transcript.Segments, 1)
	assert.Equal(t, "Présidente", transcript.Segments[0].Speaker)

	assert.Equal(t, audio, client.lastMedia)
	assert.Equal(t, llm.TierStandard, client.lastTier)
	assert.Contains(t, client.lastPrompt, "French")
	assert.Contains(t, client.lastPrompt, "Apiculture urbaine; Parc canin")
	assert.NotContains(t, client.lastPrompt, "{{.")
}

func TestTranscribe_NoContextWithoutAgenda(t *testing.T) {
	client := &fakeClient{response: `{"text": "Bonsoir."}`}

	_, err := New(client, llm.TierLite).Transcribe(context.Background(), Request{Audio: audio})
	require.NoError(t, err)
	assert.NotContains(t, client.lastPrompt, "Agenda topics")
}

func TestTranscribe_TextFromSegments(t *testing.T) {
	client := &fakeClient{response: `{"segments": [{"speaker": "Intervenant 1", "text": "Bonsoir."}, {"text": "Merci."}]}`}

	transcript, err := New(client, llm.TierStandard).Transcribe(context.Background(), Request{Audio: audio})
	require.NoError(t, err)
	assert.Equal(t, "Intervenant 1 : Bonsoir.\nMerci.", transcript.Text)
}

func TestTranscribe_Errors(t *testing.T) {
	tests := []struct {
		name    string
		client  *fakeClient
		audio   llm.Media
		wantErr func(t *testing.T, err error)
	}{
		{
			name:   "empty audio",
			client: &fakeClient{},
			audio:  llm.Media{MIMEType: "audio/mpeg"},
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrEmptyAudio)
			},
		},
		{
			name:   "too large",
			client: &fakeClient{},
			audio:  llm.Media{MIMEType: "audio/wav", Data: make([]byte, llm.MaxInlineMediaBytes+1)},
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrAudioTooLarge)
			},
		},
		{
			name:   "not audio",
			client: &fakeClient{},
			audio:  llm.Media{MIMEType: "application/pdf", Data: []byte("%PDF")},
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnsupportedAudio)
			},
		},
		{
			name:   "api failure",
			client: &fakeClient{err: errors.New("quota exceeded")},
			audio:  audio,
			wantErr: func(t *testing.T, err error) {
				var apiErr *APICallError
				require.True(t, errors.As(err, &apiErr))
				assert.Contains(t, err.Error(), "quota exceeded")
			},
		},
		{
			name:   "invalid json",
			client: &fakeClient{response: "désolé, je ne peux pas"},
			audio:  audio,
			wantErr: func(t *testing.T, err error) {
				var parseErr *ParseError
				assert.True(t, errors.As(err, &parseErr))
			},
		},
		{
			name:   "empty transcript",
			client: &fakeClient{response: `{"text": "  ", "segments": []}`},
			audio:  audio,
			wantErr: func(t *testing.T, err error) {
				var parseErr *ParseError
				require.True(t, errors.As(err, &parseErr))
				assert.Contains(t, err.Error(), "no text")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transcript, err := New(tt.client, llm.TierStandard).Transcribe(context.Background(), Request{Audio: tt.audio})
			require.Error(t, err)
			assert.Nil(t, transcript)
			tt.wantErr(t, err)
		})
	}
}
