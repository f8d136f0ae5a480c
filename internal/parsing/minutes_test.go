package parsing

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/committee-minutes/internal/docx"
	"github.com/jonathan/committee-minutes/internal/docx/docxtest"
	"github.com/jonathan/committee-minutes/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser() *Parser {
	return NewParser(
		WithClock(func() time.Time { return fixedNow }),
		WithIDFunc(counterIDs()),
	)
}

func docxFile(t *testing.T, paragraphs ...docxtest.Paragraph) types.RawDocument {
	t.Helper()
	return types.RawDocument{
		Filename: "pv.docx",
		MIMEType: docx.MIMEType,
		Content:  docxtest.Build(t, paragraphs...),
	}
}

func TestParse_SingleResolution(t *testing.T) {
	raw := docxFile(t,
		docxtest.Heading("Apiculture urbaine"),
		docxtest.Para("RÉSOLUTION 09-35"),
		docxtest.Para("CONSIDÉRANT que..."),
		docxtest.Para("IL EST RÉSOLU..."),
	)

	result, err := newTestParser().Parse(raw)
	require.NoError(t, err)
	require.Len(t, result.AgendaItems, 1)

	item := result.AgendaItems[0]
	assert.Equal(t, "Apiculture urbaine", item.Title)
	assert.Equal(t, types.ObjectiveDecision, item.Objective)
	require.Len(t, item.MinuteEntries, 1)
	assert.Equal(t, types.MinuteResolution, item.MinuteEntries[0].Type)
	assert.Equal(t, "09-35", item.MinuteEntries[0].Number)
	assert.Equal(t, "CONSIDÉRANT que...\nIL EST RÉSOLU...", item.MinuteEntries[0].Content)
}

func TestParse_ResolutionAndCommentShareHeading(t *testing.T) {
	raw := docxFile(t,
		docxtest.Heading("Apiculture urbaine"),
		docxtest.Para("RÉSOLUTION 09-35"),
		docxtest.Para("IL EST RÉSOLU..."),
		docxtest.Para("COMMENTAIRE 09-A"),
		docxtest.Para("Le comité souhaite un suivi."),
	)

	result, err := newTestParser().Parse(raw)
	require.NoError(t, err)
	require.Len(t, result.AgendaItems, 1)

	entries := result.AgendaItems[0].MinuteEntries
	require.Len(t, entries, 2)
	assert.Equal(t, types.MinuteResolution, entries[0].Type)
	assert.Equal(t, types.MinuteComment, entries[1].Type)
	assert.Equal(t, "09-A", entries[1].Number)
}

func TestParse_NumberedLineFallsBackToUntitled(t *testing.T) {
	raw := docxFile(t,
		docxtest.Para("1. Apiculture urbaine"),
		docxtest.Para("RÉSOLUTION 09-35"),
		docxtest.Para("CONSIDÉRANT que..."),
	)

	result, err := newTestParser().Parse(raw)
	require.NoError(t, err)
	require.Len(t, result.AgendaItems, 1)
	assert.Equal(t, types.UntitledItem, result.AgendaItems[0].Title)
}

func TestParse_OrderedListFallback(t *testing.T) {
	titles := []string{"Ouverture", "Adoption de l'ordre du jour", "Apiculture urbaine", "Varia", "Levée de l'assemblée"}
	paragraphs := []docxtest.Paragraph{docxtest.Para("Ordre du jour")}
	for _, title := range titles {
		paragraphs = append(paragraphs, docxtest.Numbered(title))
	}

	result, err := newTestParser().Parse(docxFile(t, paragraphs...))
	require.NoError(t, err)
	require.Len(t, result.AgendaItems, len(titles))

	for i, item := range result.AgendaItems {
		assert.Equal(t, titles[i], item.Title)
		assert.Equal(t, i, item.Order)
		assert.Equal(t, types.ObjectiveInformation, item.Objective)
		assert.Empty(t, item.MinuteEntries)
		assert.Equal(t, fmt.Sprintf("item-%d-%d", fixedNow.UnixMilli(), i), item.ID)
	}
}

func TestParse_FullMinutes(t *testing.T) {
	raw := docxFile(t,
		docxtest.Para("PROCÈS-VERBAL de la 9e assemblée du comité consultatif en environnement, tenue le jeudi 9 juin 2022 à 19 h."),
		docxtest.Para("ÉTAIENT PRÉSENTS :"),
		docxtest.Para("M. Jean Tremblay, président"),
		docxtest.Para("Mme Julie Roy, vice-présidente"),
		docxtest.Para("ÉTAIT ABSENT : M. Luc Pelletier"),
		docxtest.Bold("Gestion des matières résiduelles"),
		docxtest.Para("RÉSOLUTION 09-40"),
		docxtest.Para("Sur une proposition de M. Jean Tremblay, appuyée par Mme Julie Roy,"),
		docxtest.Para("IL EST RÉSOLU d'adopter le plan."),
		docxtest.Para("______________________"),
		docxtest.Para("Président"),
	)

	result, err := newTestParser().Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "PROCÈS-VERBAL de la 9e assemblée du comité consultatif en environnement, tenue le jeudi 9 juin 2022 à 19 h.", result.Title)
	assert.Equal(t, "2022-06-09T19:00", result.Date)
	assert.Equal(t, "09", result.MeetingNumber)

	assert.Equal(t, []types.Attendee{
		{ID: "att-1", Name: "M. Jean Tremblay", Role: types.RolePresident, IsPresent: true},
		{ID: "att-2", Name: "Mme Julie Roy", Role: types.RoleVicePresident, IsPresent: true},
		{ID: "att-3", Name: "M. Luc Pelletier", Role: types.RoleMember, IsPresent: false},
	}, result.Attendees)

	require.Len(t, result.AgendaItems, 1)
	item := result.AgendaItems[0]
	assert.Equal(t, "Gestion des matières résiduelles", item.Title)
	require.Len(t, item.MinuteEntries, 1)

	entry := item.MinuteEntries[0]
	assert.Equal(t, "Sur une proposition de M. Jean Tremblay, appuyée par Mme Julie Roy,\nIL EST RÉSOLU d'adopter le plan.", entry.Content)
	assert.Equal(t, "M. Jean Tremblay", entry.Proposer)
	assert.Equal(t, "Mme Julie Roy", entry.Seconder)
	assert.Equal(t, entry.Proposer, item.Proposer)
	assert.Equal(t, entry.Seconder, item.Seconder)
	assert.Equal(t, "09-40", item.MinuteNumber)
}

func TestParse_EmptyDocument(t *testing.T) {
	result, err := newTestParser().Parse(docxFile(t))
	require.NoError(t, err)

	assert.Empty(t, result.Title)
	assert.Empty(t, result.Date)
	assert.NotNil(t, result.AgendaItems)
	assert.Empty(t, result.AgendaItems)
	assert.NotNil(t, result.Attendees)
}

func TestParse_ConversionFailure(t *testing.T) {
	tests := []struct {
		name string
		raw  types.RawDocument
	}{
		{"malformed bytes", types.RawDocument{Filename: "pv.docx", MIMEType: docx.MIMEType, Content: []byte("PK\x03\x04 broken")}},
		{"empty", types.RawDocument{Filename: "pv.docx", MIMEType: docx.MIMEType}},
		{"pdf", types.RawDocument{Filename: "pv.pdf", MIMEType: "application/pdf", Content: []byte("%PDF-1.7")}},
		{"octet stream with wrong extension", types.RawDocument{Filename: "pv.txt", MIMEType: "application/octet-stream", Content: []byte("texte")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseAgendaDOCX(tt.raw)
			require.Error(t, err)
			assert.Nil(t, result)

			var convErr *DocumentConversionError
			require.True(t, errors.As(err, &convErr))
			assert.Equal(t, tt.raw.Filename, convErr.Filename)
		})
	}
}

func TestParse_ConversionFailureWrapsCause(t *testing.T) {
	_, err := ParseAgendaDOCX(types.RawDocument{Filename: "pv.docx", Content: []byte("not a zip")})

	var docxErr *docx.ConversionError
	assert.True(t, errors.As(err, &docxErr))
	assert.Contains(t, err.Error(), "pv.docx")
}

func TestParse_AcceptsGenericMediaTypes(t *testing.T) {
	content := docxtest.Build(t, docxtest.Heading("Varia"), docxtest.Para("COMMENTAIRE 09-A"))

	for _, mediaType := range []string{"", "application/octet-stream", docx.MIMEType + "; charset=binary"} {
		t.Run(mediaType, func(t *testing.T) {
			result, err := ParseAgendaDOCX(types.RawDocument{Filename: "pv.docx", MIMEType: mediaType, Content: content})
			require.NoError(t, err)
			assert.Len(t, result.AgendaItems, 1)
		})
	}
}

func TestParse_ConcurrentCallsAreIndependent(t *testing.T) {
	parser := NewParser()
	first := docxFile(t, docxtest.Heading("Apiculture urbaine"), docxtest.Para("RÉSOLUTION 09-35"))
	second := docxFile(t, docxtest.Heading("Parc canin"), docxtest.Para("COMMENTAIRE 09-A"), docxtest.Para("COMMENTAIRE 09-B"))

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			result, err := parser.Parse(first)
			if err == nil && result.AgendaItems[0].Title != "Apiculture urbaine" {
				err = fmt.Errorf("unexpected title %q", result.AgendaItems[0].Title)
			}
			errs <- err
		}()
		go func() {
			defer wg.Done()
			result, err := parser.Parse(second)
			if err == nil && len(result.AgendaItems[0].MinuteEntries) != 2 {
				err = fmt.Errorf("unexpected entries %d", len(result.AgendaItems[0].MinuteEntries))
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
