package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "a function has one job.", NormalizeText("  A   Function\thas one\njob.  "))
	assert.Equal(t, "", NormalizeText("   \t\n "))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "A Function has one job.", CleanText("  A   Function\thas one\njob.  "))
}

func TestIsSingleSentence(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"Loops repeat work.", true},
		{"Loops repeat work!", true},
		{"Does it halt?", true},
		{"no terminator", false},
		{"", false},
		{"   ", false},
		{"Two parts. Second part.", false},
		{"What? Yes.", false},
		{"Trailing words after. the stop", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsSingleSentence(c.text), "text: %q", c.text)
	}
}

func TestTruncateSentence(t *testing.T) {
	assert.Equal(t, "short", TruncateSentence("short", 80))

	long := ""
	for i := 0; i < 30; i++ {
		long += "abc"
	}
	got := TruncateSentence(long, 80)
	assert.Len(t, []rune(got), 83)
	assert.Equal(t, "...", got[len(got)-3:])
}

func TestSanitizeTags(t *testing.T) {
	t.Run("normalizes and filters", func(t *testing.T) {
		got := SanitizeTags([]string{" Contract ", "PURPOSE", "nonsense", "contract"})
		assert.Equal(t, []string{"contract", "purpose"}, got)
	})

	t.Run("caps at limit", func(t *testing.T) {
		got := SanitizeTags([]string{"contract", "purpose", "tests", "stub"})
		assert.Equal(t, []string{"contract", "purpose", "tests"}, got)
	})

	t.Run("nothing valid", func(t *testing.T) {
		assert.Nil(t, SanitizeTags([]string{"x", "y"}))
		assert.Nil(t, SanitizeTags(nil))
	})
}
