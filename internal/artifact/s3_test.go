package artifact

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/guttosm/garchcast/internal/domain/errs"
	"github.com/guttosm/garchcast/internal/domain/models"
)

// fakeS3 is an in-memory bucket.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("not found")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func TestS3Store_PersisterCycle(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	p := NewPersister(NewS3Store(client, "models", "/garch/"))

	id, err := p.Dump(ctx, sampleModel())
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	_, at, _ := ParseID(id)
	wantKey := "garch/ABC/" + at.Format(stampLayout) + ".json"
	if _, ok := client.objects[wantKey]; !ok {
		t.Fatalf("object %q not written; have %v", wantKey, client.objects)
	}
	// Objects of another ticker sharing a prefix must not leak into the history.
	client.objects["garch/ABCD/20241018T210000.000000Z.json"] = []byte("{}")
	client.objects["garch/ABC/notes.txt"] = []byte("x")

	m, err := p.Load(ctx, "ABC")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Params.Omega != sampleModel().Params.Omega {
		t.Fatalf("unexpected model: %+v", m.Params)
	}

	history, err := p.History(ctx, "ABC")
	if err != nil || len(history) != 1 || history[0].ID != id {
		t.Fatalf("history: %+v err=%v", history, err)
	}
}

func TestS3Store_Errors(t *testing.T) {
	ctx := context.Background()

	store := NewS3Store(newFakeS3(), "models", "")
	if _, err := store.Get(ctx, "ABC_20241018T210000.000000Z"); !errors.Is(err, errs.ErrArtifactNotFound) {
		t.Fatalf("missing key: want ErrArtifactNotFound, got %v", err)
	}

	broken := newFakeS3()
	broken.err = errors.New("access denied")
	store = NewS3Store(broken, "models", "")
	if _, err := store.Get(ctx, "ABC_20241018T210000.000000Z"); !errors.Is(err, errs.ErrRepository) {
		t.Fatalf("get: want ErrRepository, got %v", err)
	}
	if _, err := store.List(ctx, "ABC"); !errors.Is(err, errs.ErrRepository) {
		t.Fatalf("list: want ErrRepository, got %v", err)
	}
	if err := store.Put(ctx, sampleInfo(), []byte("{}")); !errors.Is(err, errs.ErrRepository) {
		t.Fatalf("put: want ErrRepository, got %v", err)
	}
}

func TestS3Store_RejectsPathLikeTickers(t *testing.T) {
	ctx := context.Background()
	bucket := newFakeS3()
	store := NewS3Store(bucket, "models", "garch")

	if _, err := store.List(ctx, "../X"); !errors.Is(err, errs.ErrInvalidParameter) {
		t.Fatalf("list: want ErrInvalidParameter, got %v", err)
	}
	info := sampleInfo()
	info.Ticker = "../X"
	if err := store.Put(ctx, info, []byte("{}")); !errors.Is(err, errs.ErrInvalidParameter) {
		t.Fatalf("put: want ErrInvalidParameter, got %v", err)
	}
	if _, err := store.Get(ctx, "A/B_20241018T210000.000000Z"); !errors.Is(err, errs.ErrArtifactNotFound) {
		t.Fatalf("get: want ErrArtifactNotFound, got %v", err)
	}
	if len(bucket.objects) != 0 {
		t.Fatalf("no object may be written: %v", bucket.objects)
	}
}

func sampleInfo() models.ArtifactInfo {
	at := sampleModel().FittedAt
	return models.ArtifactInfo{ID: NewID("ABC", at), Ticker: "ABC", FittedAt: at}
}
