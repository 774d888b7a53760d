package tui

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports/mocks"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func plainProfile() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestViewBeforeFirstResize(t *testing.T) {
	plainProfile()

	store := mocks.NewMockStore(gomock.NewController(t))
	m := New(context.Background(), store, time.Second, &bytes.Buffer{})

	assert.Equal(t, "Initializing...", m.View())
}

func TestViewRendersPoolSummary(t *testing.T) {
	plainProfile()
	m := newTestModel(t)

	m.Update(statusMsg{status: ports.PoolStatus{
		PendingByKind: map[domain.Kind]int{
			domain.KindGitRaw:    2,
			domain.KindGitEnrich: 1,
		},
		WaitingJobs:   1,
		RunningJobs:   1,
		Workers:       []domain.Worker{{ID: 1, Name: "host/5f2a"}},
		Tokens:        []domain.Token{{ID: 1}, {ID: 2, Reset: time.Now().Add(time.Hour)}},
		ArchivedOK:    5,
		ArchivedError: 1,
	}})
	m.Update(logMsg{Path: "/job_logs/job-12.log", Data: []byte("cloning repository\n")})

	view := m.View()
	assert.Contains(t, view, "POOL")
	assert.Contains(t, view, "git/enrich: 1 pending")
	assert.Contains(t, view, "git/raw: 2 pending")
	assert.Contains(t, view, "jobs: 1 waiting, 1 running")
	assert.Contains(t, view, "workers: 1")
	assert.Contains(t, view, "tokens: 1 ready, 1 parked")
	assert.Contains(t, view, "archived: ✓ 5 ok, ✗ 1 failed")
	assert.Contains(t, view, "job 12")
	assert.Contains(t, view, "LOGS: job 12 (following)")
	assert.Contains(t, view, "cloning repository")
}

func TestViewEmptyPool(t *testing.T) {
	plainProfile()
	m := newTestModel(t)

	m.Update(statusMsg{status: ports.PoolStatus{}})

	view := m.View()
	assert.Contains(t, view, "no pending intentions")
	assert.Contains(t, view, "no job logs yet")
	assert.Contains(t, view, "LOGS (waiting for jobs...)")
}

func TestViewStoreError(t *testing.T) {
	plainProfile()
	m := newTestModel(t)

	m.Update(statusMsg{err: errors.New("connection refused")})

	assert.Contains(t, m.View(), "store unreachable: connection refused")
}

func TestViewManualMode(t *testing.T) {
	plainProfile()
	m := newTestModel(t)

	m.Update(logMsg{Path: "/job_logs/job-1.log", Data: []byte("one\n")})
	m.Update(logMsg{Path: "/job_logs/job-2.log", Data: []byte("two\n")})
	m.Update(keyMsg("k"))

	assert.Contains(t, m.View(), "LOGS: job 1 (manual)")
}
