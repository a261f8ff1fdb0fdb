package desktopentry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# generated by appimagetool
[Desktop Entry]
Type=Application
Name=MyApp
Exec=AppRun --no-sandbox %U
Icon = myapp
Actions=new-window;

[Desktop Action new-window]
Name=New Window
Exec=AppRun --new-window
`

func mustParse(t *testing.T, text string) *Entry {
	t.Helper()
	e, err := Parse(strings.NewReader(text))
	require.NoError(t, err)
	return e
}

func TestParse(t *testing.T) {
	e := mustParse(t, sample)

	require.Len(t, e.Groups, 2)
	require.Len(t, e.Header, 1)
	assert.Equal(t, "# generated by appimagetool", e.Header[0].Raw)

	main := e.Main()
	require.NotNil(t, main)
	v, ok := main.Get("Icon")
	assert.True(t, ok)
	assert.Equal(t, "myapp", v)

	actions := e.ActionGroups()
	require.Len(t, actions, 1)
	assert.Equal(t, "Desktop Action new-window", actions[0].Name)
}

func TestParseSkipsByteOrderMark(t *testing.T) {
	e := mustParse(t, "\ufeff[Desktop Entry]\nName=MyApp\n")
	require.NotNil(t, e.Main())
	name, ok := e.Main().Get("Name")
	assert.True(t, ok)
	assert.Equal(t, "MyApp", name)
	assert.Empty(t, e.Header)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("Name=orphan\n"))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader("[Desktop Entry\nName=x\n"))
	assert.Error(t, err)
}

func TestSerializeIsDeterministic(t *testing.T) {
	e := mustParse(t, sample)

	want := `# generated by appimagetool

[Desktop Entry]
Type=Application
Name=MyApp
Exec=AppRun --no-sandbox %U
Icon=myapp
Actions=new-window;

[Desktop Action new-window]
Name=New Window
Exec=AppRun --new-window
`
	assert.Equal(t, want, string(e.Bytes()))

	again := mustParse(t, string(e.Bytes()))
	assert.Equal(t, e.Bytes(), again.Bytes())
}

func TestSetReplacesAndAppends(t *testing.T) {
	g := &Group{Name: MainGroup, Lines: []Line{
		{Key: "Icon", Value: "a"},
		{Raw: "# keep me"},
		{Key: "Icon", Value: "b"},
	}}

	g.Set("Icon", "c")
	g.Set("Terminal", "false")

	assert.Equal(t, []Line{
		{Key: "Icon", Value: "c"},
		{Raw: "# keep me"},
		{Key: "Terminal", Value: "false"},
	}, g.Lines)
}

func TestAppendToList(t *testing.T) {
	tests := []struct {
		name    string
		initial *string
		want    string
	}{
		{name: "missing key", want: "Uninstall-Proper;"},
		{name: "trailing separator", initial: ptr("new-window;"), want: "new-window;Uninstall-Proper;"},
		{name: "no trailing separator", initial: ptr("new-window"), want: "new-window;Uninstall-Proper;"},
		{name: "already present", initial: ptr("Uninstall-Proper;"), want: "Uninstall-Proper;"},
		{name: "empty value", initial: ptr(""), want: "Uninstall-Proper;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Group{Name: MainGroup}
			if tt.initial != nil {
				g.Set("Actions", *tt.initial)
			}
			g.AppendToList("Actions", "Uninstall-Proper")
			got, _ := g.Get("Actions")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitListKeepsEscapedSeparator(t *testing.T) {
	assert.Equal(t, []string{`a\;b`, "c"}, SplitList(`a\;b;c;`))
	assert.Nil(t, SplitList(""))
}

func TestReplaceGroup(t *testing.T) {
	e := mustParse(t, sample)
	e.ReplaceGroup(&Group{Name: "Desktop Action new-window", Lines: []Line{{Key: "Name", Value: "Other"}}})

	require.Len(t, e.Groups, 2)
	name, _ := e.Group("Desktop Action new-window").Get("Name")
	assert.Equal(t, "Other", name)

	e.AddGroup("Desktop Action extra")
	assert.Len(t, e.Groups, 3)
	e.AddGroup("Desktop Action extra")
	assert.Len(t, e.Groups, 3)
}

func ptr(s string) *string { return &s }
