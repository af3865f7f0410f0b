package client

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/TheFungusAmongUs/GeoBot/grpc/service"
	"github.com/TheFungusAmongUs/GeoBot/model"
)

type finder struct {
	subs []*model.Submission
}

func (f *finder) Get(id string) (*model.Submission, bool) {
	for _, s := range f.subs {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

func (f *finder) FindByAuthor(authorID string) []*model.Submission {
	var out []*model.Submission
	for _, s := range f.subs {
		if s.Author.ID == authorID {
			out = append(out, s)
		}
	}
	return out
}

func newSubmission(id, title, authorID string) *model.Submission {
	sub := model.NewSubmission(model.KindQuestion, title, model.Body("details here"), model.UserRef{ID: authorID, Name: "author"})
	sub.ID = id
	return sub
}

func startServer(t *testing.T, f *finder) (*service.Server, *QueryClient) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := service.NewServer(service.NewSubmissionService(f, "1", "approval"))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c, err := NewQueryClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return srv, c
}

func TestGetSubmission(t *testing.T) {
	f := &finder{subs: []*model.Submission{newSubmission("100", "Why is Canada so big?", "42")}}
	_, c := startServer(t, f)

	got, err := c.GetSubmission(context.Background(), "100")
	require.NoError(t, err)

	fields := got.GetFields()
	assert.Equal(t, "100", fields["id"].GetStringValue())
	assert.Equal(t, "QUESTION", fields["kind"].GetStringValue())
	assert.Equal(t, "IN_REVIEW", fields["status"].GetStringValue())
	assert.Equal(t, "Why is Canada so big?", fields["title"].GetStringValue())
	assert.Equal(t, "42", fields["author_id"].GetStringValue())
	assert.Equal(t, "https://discord.com/channels/1/approval/100", fields["link"].GetStringValue())

	content := fields["content"].GetListValue().GetValues()
	require.Len(t, content, 1)
	assert.Equal(t, "details here", content[0].GetStructValue().GetFields()["text"].GetStringValue())
}

func TestGetSubmission_NotFound(t *testing.T) {
	_, c := startServer(t, &finder{})

	_, err := c.GetSubmission(context.Background(), "404")
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGetSubmission_EmptyID(t *testing.T) {
	_, c := startServer(t, &finder{})

	_, err := c.GetSubmission(context.Background(), "")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestListByAuthor(t *testing.T) {
	f := &finder{subs: []*model.Submission{
		newSubmission("1", "first", "42"),
		newSubmission("2", "other", "43"),
		newSubmission("3", "second", "42"),
	}}
	_, c := startServer(t, f)

	subs, err := c.ListByAuthor(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "first", subs[0].GetFields()["title"].GetStringValue())
	assert.Equal(t, "second", subs[1].GetFields()["title"].GetStringValue())

	none, err := c.ListByAuthor(context.Background(), "44")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHealth_ServingAfterMarked(t *testing.T) {
	srv, c := startServer(t, &finder{})

	serving, err := c.Serving(context.Background())
	require.NoError(t, err)
	assert.False(t, serving)

	srv.MarkServing()
	serving, err = c.Serving(context.Background())
	require.NoError(t, err)
	assert.True(t, serving)
}
