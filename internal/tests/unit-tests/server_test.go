package unit_tests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"promptstudio/internal/models"
	"promptstudio/internal/server"
)

// slowGeneration emits one fragment, waits for proceed, then floods far more
// fragments than the handler buffers before returning.
type slowGeneration struct {
	proceed  chan struct{}
	returned chan struct{}
}

func (g *slowGeneration) Generate(_ context.Context, _ models.GenerationInput, onFragment func(string)) (*models.HistoryItem, error) {
	onFragment("first")
	<-g.proceed
	for i := 0; i < 64; i++ {
		onFragment("fragment")
	}
	close(g.returned)
	return nil, nil
}

func (g *slowGeneration) ResolveSelection(models.GenerationInput) []models.PromptTemplate {
	return nil
}

// A client that walks away mid-stream must not strand the generation
// goroutine on a full fragment channel.
func TestHandleGenerate_ClientDisconnectDoesNotStrandGeneration(t *testing.T) {
	generation := &slowGeneration{
		proceed:  make(chan struct{}),
		returned: make(chan struct{}),
	}
	srv := server.New(server.Deps{Generation: generation})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/generate", "application/json", strings.NewReader(`{"prompt":"idea"}`))
	assert.NoError(t, err)

	// Read the first fragment, then hang up.
	buf := make([]byte, 1)
	_, err = resp.Body.Read(buf)
	assert.NoError(t, err)
	assert.NoError(t, resp.Body.Close())
	time.Sleep(50 * time.Millisecond)

	close(generation.proceed)

	select {
	case <-generation.returned:
	case <-time.After(2 * time.Second):
		t.Fatal("generation goroutine stayed blocked after the client disconnected")
	}
}
