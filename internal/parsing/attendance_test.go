package parsing

import (
	"fmt"
	"testing"

	"github.com/jonathan/committee-minutes/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterIDs() IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("att-%d", n)
	}
}

const attendanceText = `PROCÈS-VERBAL de la 9e assemblée.
ÉTAIENT PRÉSENTS :
M. Jean Tremblay, président
Mme Julie Roy, vice-présidente
Mme Anne Côté, secrétaire
M. Marc Gagnon, conseiller responsable
Mme Sophie Lavoie, conseillère
M. Paul Bouchard
ÉTAIENT AUSSI PRÉSENTS :
Mme Claire Dubé, coordonnatrice
ÉTAIT ABSENT : M. Luc Pelletier
ORDRE DU JOUR
`

func TestExtractAttendees(t *testing.T) {
	attendees := ExtractAttendees(attendanceText, counterIDs())

	want := []types.Attendee{
		{ID: "att-1", Name: "M. Jean Tremblay", Role: types.RolePresident, IsPresent: true},
		{ID: "att-2", Name: "Mme Julie Roy", Role: types.RoleVicePresident, IsPresent: true},
		{ID: "att-3", Name: "Mme Anne Côté", Role: types.RoleSecretary, IsPresent: true},
		{ID: "att-4", Name: "M. Marc Gagnon", Role: types.RoleResponsibleCouncillor, IsPresent: true},
		{ID: "att-5", Name: "Mme Sophie Lavoie", Role: types.RoleCouncillor, IsPresent: true},
		{ID: "att-6", Name: "M. Paul Bouchard", Role: types.RoleMember, IsPresent: true},
		{ID: "att-7", Name: "Mme Claire Dubé", Role: types.RoleMember, IsPresent: true},
		{ID: "att-8", Name: "M. Luc Pelletier", Role: types.RoleMember, IsPresent: false},
	}
	assert.Equal(t, want, attendees)
}

func TestExtractAttendees_DefaultIDsAreUnique(t *testing.T) {
	attendees := ExtractAttendees(attendanceText, nil)
	require.Len(t, attendees, 8)

	seen := make(map[string]bool)
	for _, a := range attendees {
		assert.NotEmpty(t, a.ID)
		assert.False(t, seen[a.ID], "duplicate id %s", a.ID)
		seen[a.ID] = true
	}
}

func TestExtractAttendees_NoDeduplication(t *testing.T) {
	text := "ÉTAIENT PRÉSENTS : Mme Julie Roy, présidente\n" +
		"ÉTAIENT AUSSI PRÉSENTS : Mme Julie Roy\n"

	attendees := ExtractAttendees(text, counterIDs())

	require.Len(t, attendees, 2)
	assert.Equal(t, attendees[0].Name, attendees[1].Name)
	assert.Equal(t, types.RolePresident, attendees[0].Role)
	assert.Equal(t, types.RoleMember, attendees[1].Role)
}

func TestExtractAttendees_PresentBlockNeedsTerminator(t *testing.T) {
	attendees := ExtractAttendees("ÉTAIENT PRÉSENTS : M. Jean Tremblay, président", counterIDs())
	assert.Empty(t, attendees)
}

func TestExtractAttendees_AbsentRequiresFullName(t *testing.T) {
	text := "ÉTAIENT ABSENTS : M. Luc Pelletier, Mme Roy et Mme Anne Côté\nsuite"

	attendees := ExtractAttendees(text, counterIDs())

	require.Len(t, attendees, 2)
	assert.Equal(t, "M. Luc Pelletier", attendees[0].Name)
	assert.Equal(t, "Mme Anne Côté", attendees[1].Name)
	for _, a := range attendees {
		assert.False(t, a.IsPresent)
		assert.Equal(t, types.RoleMember, a.Role)
	}
}

func TestParsePeople_DropsShortNames(t *testing.T) {
	people := ParsePeople("M. Li, conseiller M. Jean Tremblay")

	require.Len(t, people, 1)
	assert.Equal(t, "M. Jean Tremblay", people[0].Name)
	assert.Empty(t, people[0].ID)
}

func TestMatchRole(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"vice-présidente", types.RoleVicePresident},
		{"Vice-président", types.RoleVicePresident},
		{"vice présidente du comité", types.RoleVicePresident},
		{"présidente", types.RolePresident},
		{"Président", types.RolePresident},
		{"secrétaire", types.RoleSecretary},
		{"conseillère responsable", types.RoleResponsibleCouncillor},
		{"conseiller municipal", types.RoleCouncillor},
		{"citoyenne", types.RoleMember},
		{"", types.RoleMember},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchRole(tt.text))
		})
	}
}
