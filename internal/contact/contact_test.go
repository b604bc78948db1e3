package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("a@b.co"))
	assert.True(t, ValidEmail("maria.silva@tjrr.jus.br"))
	assert.False(t, ValidEmail("a@b"))
	assert.False(t, ValidEmail("a b@c.com"))
	assert.False(t, ValidEmail("@c.com"))
	assert.False(t, ValidEmail(""))
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "95988887777", Digits("(95) 98888-7777"))
	assert.Equal(t, "", Digits("sem número"))
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"95988887777", "(95) 98888-7777"},
		{"9533334444", "(95) 3333-4444"},
		{"(95) 98888-7777", "(95) 98888-7777"},
		{"95", "(95"},
		{"959", "(95) 9"},
		{"95333", "(95) 333"},
		{"953333444", "(95) 3333-444"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPhone(tt.raw), "raw=%q", tt.raw)
	}
}

func TestJoinSplitContact(t *testing.T) {
	joined := JoinContact("ana@tjrr.jus.br", "(95) 98888-7777")
	assert.Equal(t, "ana@tjrr.jus.br | (95) 98888-7777", joined)

	email, phone := SplitContact(joined)
	assert.Equal(t, "ana@tjrr.jus.br", email)
	assert.Equal(t, "(95) 98888-7777", phone)

	email, phone = SplitContact("ana@tjrr.jus.br")
	assert.Equal(t, "ana@tjrr.jus.br", email)
	assert.Equal(t, "", phone)

	email, phone = SplitContact("")
	assert.Equal(t, "", email)
	assert.Equal(t, "", phone)
}

func TestExtractDetails(t *testing.T) {
	t.Run("conventional description", func(t *testing.T) {
		desc := "Solicitante: Ana Souza\nTelefone: (95) 98888-7777\nAssunto: Reclamação"
		d := ExtractDetails(desc, "Atendimento Ouvidoria: Ana Souza")
		assert.Equal(t, "Ana Souza", d.Name)
		assert.Equal(t, "(95) 98888-7777", d.Phone)
	})

	t.Run("summary fallback strips label", func(t *testing.T) {
		d := ExtractDetails("sem campos", "Atendimento: João Pereira")
		assert.Equal(t, "João Pereira", d.Name)
		assert.Equal(t, "", d.Phone)
	})

	t.Run("plain summary fallback", func(t *testing.T) {
		d := ExtractDetails("", "João Pereira")
		assert.Equal(t, "João Pereira", d.Name)
	})

	t.Run("empty everything", func(t *testing.T) {
		d := ExtractDetails("", "")
		assert.Equal(t, "", d.Name)
		assert.Equal(t, "", d.Phone)
	})
}
