package theme_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/tempo/pkg/ui/theme"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		name string
		want string
	}{
		"named": {name: "monokai", want: "monokai"},
		"dark":  {name: "dark", want: "github-dark"},
		"light": {name: "light", want: "github"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			th := theme.New(tc.name)
			require.NotNil(t, th.ChromaStyle)
			assert.Equal(t, tc.want, th.Name)
			assert.NotEmpty(t, th.LogoStyle.Render("tempo"))
		})
	}
}

func TestNew_Unknown(t *testing.T) {
	t.Parallel()

	th := theme.New("no-such-style")
	require.NotNil(t, th.ChromaStyle)
	assert.NotEqual(t, "no-such-style", th.Name)
}

func TestHuhTheme(t *testing.T) {
	t.Parallel()

	h := theme.HuhTheme(theme.New("github"))
	require.NotNil(t, h)
	assert.Equal(t,
		theme.New("github").SelectedStyle.GetForeground(),
		h.Focused.Title.GetForeground(),
	)
}
