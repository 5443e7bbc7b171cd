package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"blog-views/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubViews struct {
	counted  bool
	subject  domain.Subject
	req      domain.ViewRequest
	days     int
	stats    domain.ViewStats
	recorded int
}

func (s *stubViews) RecordView(_ context.Context, subj domain.Subject, req domain.ViewRequest) bool {
	s.recorded++
	s.subject = subj
	s.req = req
	return s.counted
}

func (s *stubViews) ViewCount(context.Context, domain.Subject) int64 { return s.stats.TotalViews }
func (s *stubViews) UniqueViewCount(context.Context, domain.Subject) int64 {
	return s.stats.UniqueViews
}

func (s *stubViews) ViewsHistory(context.Context, domain.Subject, int) []domain.DailyViews {
	return s.stats.History
}

func (s *stubViews) Stats(_ context.Context, subj domain.Subject, days int) domain.ViewStats {
	s.subject = subj
	s.days = days
	return s.stats
}

type stubPosts struct {
	known      map[string]bool
	increments int
}

func (p *stubPosts) FindActiveBySlug(context.Context, string) (*domain.Post, error) {
	return nil, domain.ErrPostNotFound
}

func (p *stubPosts) FindByID(_ context.Context, id string) (*domain.Post, error) {
	if !p.known[id] {
		return nil, domain.ErrPostNotFound
	}
	oid, _ := primitive.ObjectIDFromHex(id)
	return &domain.Post{ID: oid}, nil
}

func (p *stubPosts) ListActive(context.Context, int64, int64) ([]domain.Post, error) { return nil, nil }
func (p *stubPosts) CountActive(context.Context) (int64, error)                      { return 0, nil }

func (p *stubPosts) IncrementViews(context.Context, string, time.Time) error {
	p.increments++
	return nil
}

func testEnv(v *stubViews, p *stubPosts) (*env, *bytes.Buffer, *int) {
	var out bytes.Buffer
	released := 0
	e := &env{
		out: &out,
		open: func(context.Context) (*backend, func(), error) {
			return &backend{views: v, posts: p}, func() { released++ }, nil
		},
	}
	return e, &out, &released
}

func TestStatsCommand(t *testing.T) {
	v := &stubViews{stats: domain.ViewStats{
		TotalViews:  2,
		UniqueViews: 1,
		History:     []domain.DailyViews{{Date: "2026-10-14", Count: 2}},
	}}
	e, out, released := testEnv(v, &stubPosts{})

	require.NoError(t, run(e, []string{"stats", "--id", "P1", "--days", "7"}))

	var got domain.ViewStats
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, v.stats, got)
	assert.Equal(t, domain.Subject{ID: "P1", Type: domain.SubjectPost}, v.subject)
	assert.Equal(t, 7, v.days)
	assert.Equal(t, 1, *released)
}

func TestStatsCommand_DefaultsAndType(t *testing.T) {
	v := &stubViews{stats: domain.ViewStats{History: []domain.DailyViews{}}}
	e, _, _ := testEnv(v, &stubPosts{})

	require.NoError(t, run(e, []string{"stats", "--id", "C9", "--type", "comment"}))
	assert.Equal(t, domain.Subject{ID: "C9", Type: domain.SubjectComment}, v.subject)
	assert.Equal(t, 30, v.days)
}

func TestStatsCommand_InvalidType(t *testing.T) {
	e, _, released := testEnv(&stubViews{}, &stubPosts{})

	err := run(e, []string{"stats", "--id", "P1", "--type", "Post"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidSubjectType))
	assert.Zero(t, *released)
}

func TestStatsCommand_MissingID(t *testing.T) {
	e, _, _ := testEnv(&stubViews{}, &stubPosts{})

	require.Error(t, run(e, []string{"stats"}))
}

func TestRecordCommand_CountsAndIncrements(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	v := &stubViews{counted: true}
	p := &stubPosts{known: map[string]bool{id: true}}
	e, out, _ := testEnv(v, p)

	require.NoError(t, run(e, []string{"record", "--id", id, "--ip", "1.2.3.4", "--agent", "UA1"}))
	assert.Equal(t, "counted=true\n", out.String())
	assert.Equal(t, domain.ViewRequest{RemoteAddr: "1.2.3.4", UserAgent: "UA1"}, v.req)
	assert.Equal(t, 1, p.increments)
}

func TestRecordCommand_NotCounted(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	p := &stubPosts{known: map[string]bool{id: true}}
	e, out, _ := testEnv(&stubViews{counted: false}, p)

	require.NoError(t, run(e, []string{"record", "--id", id, "--ip", "1.2.3.4"}))
	assert.Equal(t, "counted=false\n", out.String())
	assert.Zero(t, p.increments)
}

func TestRecordCommand_UnknownPost(t *testing.T) {
	v := &stubViews{counted: true}
	e, _, _ := testEnv(v, &stubPosts{})

	err := run(e, []string{"record", "--id", primitive.NewObjectID().Hex(), "--ip", "1.2.3.4"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPostNotFound))
	assert.Zero(t, v.recorded)
}

func TestRecordCommand_CommentSkipsPostLookup(t *testing.T) {
	v := &stubViews{counted: true}
	p := &stubPosts{}
	e, out, _ := testEnv(v, p)

	require.NoError(t, run(e, []string{"record", "--id", "C1", "--type", "comment", "--ip", "1.2.3.4"}))
	assert.Equal(t, "counted=true\n", out.String())
	assert.Zero(t, p.increments)
}

func TestSubcommandsRecognized(t *testing.T) {
	parser, cmds := buildParser(&env{})
	require.NotNil(t, parser.Find("stats"))
	require.NotNil(t, parser.Find("record"))
	assert.NotNil(t, cmds.Stats)
	assert.NotNil(t, cmds.Record)
}
