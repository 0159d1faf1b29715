package services

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxMessageLength = 2000

// rule maps keyword groups to a canned answer. Every keyword in a group
// must appear in the message for the rule to fire; groups are checked in
// order and the first match wins.
type rule struct {
	keywords []string
	answer   string
}

var rules = []rule{
	{
		keywords: []string{"cadastr", "paciente"},
		answer:   "Para cadastrar um paciente, acesse a aba Pacientes e clique em Novo Paciente. Preencha nome completo, CPF e data de nascimento. O paciente entra com status Em Avaliação até a primeira consulta.",
	},
	{
		keywords: []string{"digitaliz"},
		answer:   "Para digitalizar um documento, abra a ficha do paciente e use Enviar Documento. O arquivo é processado pelo OCR e o texto extraído fica disponível na ficha em alguns instantes.",
	},
	{
		keywords: []string{"ocr"},
		answer:   "O OCR converte fotos e digitalizações de fichas em texto pesquisável. Após o envio, acompanhe o status do documento; quando concluído, o texto extraído aparece na ficha do paciente.",
	},
	{
		keywords: []string{"foto"},
		answer:   "Fotos de fichas em papel podem ser enviadas diretamente na ficha do paciente. O sistema aceita imagens e PDFs e extrai o texto automaticamente.",
	},
	{
		keywords: []string{"imagem"},
		answer:   "Fotos de fichas em papel podem ser enviadas diretamente na ficha do paciente. O sistema aceita imagens e PDFs e extrai o texto automaticamente.",
	},
	{
		keywords: []string{"busca"},
		answer:   "Use a barra de busca na aba Pacientes para procurar por nome ou CPF. A busca também encontra texto extraído de documentos digitalizados.",
	},
	{
		keywords: []string{"procur"},
		answer:   "Use a barra de busca na aba Pacientes para procurar por nome ou CPF. A busca também encontra texto extraído de documentos digitalizados.",
	},
	{
		keywords: []string{"hist"},
		answer:   "O histórico do paciente reúne consultas registradas e documentos digitalizados, em ordem cronológica, na ficha do paciente.",
	},
	{
		keywords: []string{"prontu"},
		answer:   "O prontuário reúne consultas registradas e documentos digitalizados, em ordem cronológica, na ficha do paciente.",
	},
}

const defaultAnswer = "Posso ajudar com cadastro de pacientes, digitalização de documentos, busca no prontuário e dúvidas sobre o uso do sistema. Sobre o que você quer saber?"

// AssistantService answers operational questions with a keyword rule table.
// There is no external AI call; the answers are curated for the product.
type AssistantService struct{}

func NewAssistantService() *AssistantService {
	return &AssistantService{}
}

// Answer validates the message and returns the first matching canned answer.
func (s *AssistantService) Answer(message string) (string, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return "", fmt.Errorf("mensagem vazia")
	}
	if utf8.RuneCountInString(trimmed) > maxMessageLength {
		return "", fmt.Errorf("mensagem excede o limite de %d caracteres", maxMessageLength)
	}

	lower := strings.ToLower(trimmed)
	for _, r := range rules {
		matched := true
		for _, kw := range r.keywords {
			if !strings.Contains(lower, kw) {
				matched = false
				break
			}
		}
		if matched {
			return r.answer, nil
		}
	}
	return defaultAnswer, nil
}
