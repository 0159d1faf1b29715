package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerRejectsEmptyMessage(t *testing.T) {
	svc := NewAssistantService()

	_, err := svc.Answer("")
	assert.Error(t, err)

	_, err = svc.Answer("   \n\t ")
	assert.Error(t, err)
}

func TestAnswerRejectsOversizedMessage(t *testing.T) {
	svc := NewAssistantService()

	_, err := svc.Answer(strings.Repeat("a", 2001))
	assert.Error(t, err)

	// Exactly at the limit is fine.
	_, err = svc.Answer(strings.Repeat("a", 2000))
	assert.NoError(t, err)
}

func TestAnswerMatchesKeywords(t *testing.T) {
	svc := NewAssistantService()

	cases := []struct {
		message  string
		fragment string
	}{
		{"Como faço para cadastrar um paciente novo?", "cadastrar um paciente"},
		{"Quero digitalizar uma ficha antiga", "digitalizar um documento"},
		{"O que o OCR faz exatamente?", "OCR converte"},
		{"Posso mandar uma foto da ficha?", "Fotos de fichas"},
		{"Como funciona a busca?", "barra de busca"},
		{"Onde vejo o histórico do paciente?", "ordem cronológica"},
		{"Onde fica o prontuário?", "prontuário"},
	}

	for _, tc := range cases {
		answer, err := svc.Answer(tc.message)
		require.NoError(t, err, tc.message)
		assert.Contains(t, answer, tc.fragment, tc.message)
	}
}

func TestAnswerIsCaseInsensitive(t *testing.T) {
	svc := NewAssistantService()

	lower, err := svc.Answer("como cadastrar paciente")
	require.NoError(t, err)
	upper, err := svc.Answer("COMO CADASTRAR PACIENTE")
	require.NoError(t, err)

	assert.Equal(t, lower, upper)
}

func TestAnswerFallsBackToDefault(t *testing.T) {
	svc := NewAssistantService()

	answer, err := svc.Answer("qual a previsão do tempo para amanhã?")
	require.NoError(t, err)
	assert.Equal(t, defaultAnswer, answer)
}
