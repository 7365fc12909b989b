package backend

import (
	"testing"
	"time"

	"github.com/ghaggin/erp-console/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_RoundTrip(t *testing.T) {
	require := require.New(t)

	i, err := NewIssuer("secret", time.Hour)
	require.NoError(err)

	token, err := i.Issue(&model.User{Name: "admin", Roles: []string{"ADMIN"}})
	require.NoError(err)

	sub, err := i.Parse(token)
	require.NoError(err)
	require.Equal("admin", sub)
}

func TestIssuer_Rejects(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	i, err := NewIssuer("secret", time.Hour)
	require.NoError(err)
	token, err := i.Issue(&model.User{Name: "admin"})
	require.NoError(err)

	other, err := NewIssuer("other", time.Hour)
	require.NoError(err)
	_, err = other.Parse(token)
	assert.Error(err)

	i.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = i.Parse(token)
	assert.Error(err)

	_, err = i.Parse("abc")
	assert.Error(err)

	_, err = NewIssuer("", time.Hour)
	assert.Error(err)
}
