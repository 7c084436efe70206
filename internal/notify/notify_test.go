package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wempy/storefront/internal/domain"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	Warning(r, "warn")
	r.Notify(domain.SeveritySuccess, "done", 5*time.Second)
	r.Redirect("login.html", 2*time.Second)

	got := r.Notifications()
	require.Len(t, got, 2)
	assert.Equal(t, domain.SeverityWarning, got[0].Severity)
	assert.Equal(t, int64(3000), got[0].DurationMs)
	assert.Equal(t, int64(5000), got[1].DurationMs)

	redirect := r.RedirectTo()
	require.NotNil(t, redirect)
	assert.Equal(t, "login.html", redirect.Target)
	assert.Equal(t, int64(2000), redirect.AfterMs)
}
