package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wertwang/theia/internal/logging"
	"github.com/wertwang/theia/internal/output"
)

func newTestResolver(t *testing.T) (*Resolver, *output.Manager) {
	t.Helper()
	manager := output.NewManager(nil, 100, logging.NewNop())
	return NewResolver(manager), manager
}

func TestParseURI(t *testing.T) {
	uri, err := ParseURI("output:Tasks")
	require.NoError(t, err)
	assert.Equal(t, "Tasks", uri.Name)
	assert.Equal(t, "output:Tasks", uri.String())
}

func TestParseURIWrongScheme(t *testing.T) {
	_, err := ParseURI("file:Tasks")
	assert.ErrorIs(t, err, ErrInvalidURI)

	_, err = ParseURI("no-scheme-at-all")
	assert.ErrorIs(t, err, ErrInvalidURI)
}

func TestParseURIMissingName(t *testing.T) {
	_, err := ParseURI("output:")
	assert.ErrorIs(t, err, ErrInvalidURI)
}

func TestParseEmptySentinel(t *testing.T) {
	uri, err := ParseURI(EmptyURI)
	require.NoError(t, err)
	assert.True(t, uri.Empty())
	assert.Equal(t, EmptyURI, uri.String())
}

func TestResolveUnregisteredChannel(t *testing.T) {
	resolver, _ := newTestResolver(t)

	_, err := resolver.Resolve("output:missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveContent(t *testing.T) {
	resolver, manager := newTestResolver(t)
	manager.GetChannel("build").AppendLine("compiling", output.SeverityInfo)

	res, err := resolver.Resolve("output:build")
	require.NoError(t, err)

	content, err := res.Content(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "compiling\n", content)
}

func TestResolveEmptySentinelContent(t *testing.T) {
	resolver, _ := newTestResolver(t)

	res, err := resolver.Resolve(EmptyURI)
	require.NoError(t, err)

	content, err := res.Content(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", content)
}

func TestResourceChangeNotification(t *testing.T) {
	resolver, manager := newTestResolver(t)
	ch := manager.GetChannel("build")

	res, err := resolver.Resolve("output:build")
	require.NoError(t, err)

	var changes []output.ContentChange
	res.OnDidChange(func(chg output.ContentChange) {
		changes = append(changes, chg)
	})

	ch.AppendLine("one", output.SeverityInfo)
	require.Len(t, changes, 1)
	assert.Equal(t, output.ChangeAppend, changes[0].Kind)

	res.Dispose()
	ch.AppendLine("two", output.SeverityInfo)
	assert.Len(t, changes, 1, "disposed resource must not receive changes")
}
