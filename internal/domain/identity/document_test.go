package identity

import (
	"strings"
	"testing"

	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "39053344705", Normalize("390.533.447-05"))
	assert.Equal(t, "11222333000181", Normalize(" 11.222.333/0001-81 "))
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("abc./-"))
}

func TestValidateCPF(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  bool
	}{
		{"formatted", "390.533.447-05", true},
		{"digits only", "39053344705", true},
		{"another valid number", "529.982.247-25", true},
		{"wrong second digit", "390.533.447-06", false},
		{"wrong first digit", "390.533.447-15", false},
		{"too short", "3905334470", false},
		{"too long", "390533447051", false},
		{"empty", "", false},
		{"garbage", "not-a-document", false},
		{"sequence", "12312312312", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidateCPF(tc.input))
		})
	}

	t.Run("repeated digits are rejected", func(t *testing.T) {
		for d := '0'; d <= '9'; d++ {
			assert.False(t, ValidateCPF(strings.Repeat(string(d), 11)), "digit %c", d)
		}
	})
}

func TestValidateCNPJ(t *testing.T) {
	valid := []string{"11.222.333/0001-81", "11222333000181"}
	for _, doc := range valid {
		assert.True(t, ValidateCNPJ(doc), doc)
	}

	t.Run("altering a check digit invalidates", func(t *testing.T) {
		base := "1122233300018"
		for d := '0'; d <= '9'; d++ {
			if d == '1' {
				continue
			}
			assert.False(t, ValidateCNPJ(base+string(d)), "last digit %c", d)
		}
		for d := '0'; d <= '9'; d++ {
			if d == '8' {
				continue
			}
			assert.False(t, ValidateCNPJ("112223330001"+string(d)+"1"), "first check digit %c", d)
		}
	})

	t.Run("malformed input", func(t *testing.T) {
		assert.False(t, ValidateCNPJ(""))
		assert.False(t, ValidateCNPJ("1122233300018"))
		assert.False(t, ValidateCNPJ(strings.Repeat("7", 14)))
		assert.False(t, ValidateCNPJ("39053344705"))
	})
}

func TestValidate(t *testing.T) {
	assert.True(t, Validate(shared.PersonTypeIndividual, "390.533.447-05"))
	assert.False(t, Validate(shared.PersonTypeOrganization, "390.533.447-05"))
	assert.True(t, Validate(shared.PersonTypeOrganization, "11.222.333/0001-81"))
	assert.False(t, Validate(shared.PersonType("XX"), "11.222.333/0001-81"))
}
