package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/maourynd/radio-summary/application/ports/outbound"
	"github.com/maourynd/radio-summary/domain"
)

// In-memory stand-ins for the outbound ports, shared by the service
// tests in this package.

type fakeStateStore struct {
	values map[string]int64
	setErr error
	incErr error
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{values: map[string]int64{}}
}

func (f *fakeStateStore) Get(_ context.Context, key string) (int64, bool, error) {
	value, found := f.values[key]
	return value, found, nil
}

func (f *fakeStateStore) Set(_ context.Context, key string, value int64) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value
	return nil
}

func (f *fakeStateStore) Raise(_ context.Context, key string, value int64) (int64, error) {
	if value > f.values[key] {
		f.values[key] = value
	}
	return f.values[key], nil
}

func (f *fakeStateStore) Increment(_ context.Context, key string) (int64, error) {
	if f.incErr != nil {
		return 0, f.incErr
	}
	f.values[key]++
	return f.values[key], nil
}

type fakeObjectStore struct {
	objects    map[string][]byte
	order      []string
	uploads    []string
	uploadErr  map[string]error
	getErr     map[string]error
	deleteErr  error
	listErr    error
	deletions  []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		objects:   map[string][]byte{},
		uploadErr: map[string]error{},
		getErr:    map[string]error{},
	}
}

func (f *fakeObjectStore) Upload(_ context.Context, key string, payload []byte) error {
	if err := f.uploadErr[key]; err != nil {
		return err
	}
	if _, exists := f.objects[key]; !exists {
		f.order = append(f.order, key)
	}
	f.objects[key] = append([]byte(nil), payload...)
	f.uploads = append(f.uploads, key)
	return nil
}

func (f *fakeObjectStore) Get(_ context.Context, key string) ([]byte, error) {
	if err := f.getErr[key]; err != nil {
		return nil, err
	}
	payload, found := f.objects[key]
	if !found {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return payload, nil
}

// List returns keys in upload order on purpose: callers are expected
// to impose their own ordering.
func (f *fakeObjectStore) List(_ context.Context, prefix string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var keys []string
	for _, key := range f.order {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (f *fakeObjectStore) Copy(ctx context.Context, srcKey, dstKey string) error {
	payload, err := f.Get(ctx, srcKey)
	if err != nil {
		return err
	}
	return f.Upload(ctx, dstKey, payload)
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	for i, k := range f.order {
		if k == key {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	f.deletions = append(f.deletions, key)
	return nil
}

func (f *fakeObjectStore) DeletePrefix(ctx context.Context, prefix string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	keys, _ := f.List(ctx, prefix)
	for _, key := range keys {
		if err := f.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeObjectStore) URI(key string) string {
	return "s3://test-bucket/" + key
}

type fakeSegmentSource struct {
	refs        []domain.SegmentRef
	payloads    map[int64][]byte
	fetchErr    map[int64]error
	discoverErr error
}

func newFakeSegmentSource(refs ...domain.SegmentRef) *fakeSegmentSource {
	source := &fakeSegmentSource{
		refs:     refs,
		payloads: map[int64][]byte{},
		fetchErr: map[int64]error{},
	}
	for _, ref := range refs {
		source.payloads[ref.Key] = []byte(fmt.Sprintf("audio-%d", ref.Key))
	}
	return source
}

func (f *fakeSegmentSource) Discover(_ context.Context) ([]domain.SegmentRef, error) {
	if f.discoverErr != nil {
		return nil, f.discoverErr
	}
	return f.refs, nil
}

func (f *fakeSegmentSource) Fetch(_ context.Context, ref domain.SegmentRef) ([]byte, error) {
	if err := f.fetchErr[ref.Key]; err != nil {
		return nil, err
	}
	return f.payloads[ref.Key], nil
}

type fakeJob struct {
	statuses []domain.JobStatus
	polls    int
}

func (j *fakeJob) next() domain.JobStatus {
	idx := j.polls
	if idx >= len(j.statuses) {
		idx = len(j.statuses) - 1
	}
	j.polls++
	return j.statuses[idx]
}

type fakeJobRunner struct {
	jobs           map[string]*fakeJob
	submitStatuses []domain.JobStatus
	submits        int
	lookups        int
	submitErr      error
	lookupErr      error
}

func newFakeJobRunner() *fakeJobRunner {
	return &fakeJobRunner{
		jobs:           map[string]*fakeJob{},
		submitStatuses: []domain.JobStatus{domain.JobCompleted},
	}
}

func (f *fakeJobRunner) Submit(_ context.Context, params outbound.SubmitJobParams) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submits++
	f.jobs[params.JobName] = &fakeJob{statuses: f.submitStatuses}
	return nil
}

func (f *fakeJobRunner) Lookup(_ context.Context, jobName string) (domain.JobStatus, bool, error) {
	if f.lookupErr != nil {
		return "", false, f.lookupErr
	}
	f.lookups++
	job, found := f.jobs[jobName]
	if !found {
		return "", false, nil
	}
	return job.next(), true, nil
}

type fakeTranscriptionStore struct {
	records map[int64]domain.Transcription
	linkErr map[int64]error
	listErr error
}

func newFakeTranscriptionStore() *fakeTranscriptionStore {
	return &fakeTranscriptionStore{
		records: map[int64]domain.Transcription{},
		linkErr: map[int64]error{},
	}
}

func (f *fakeTranscriptionStore) GetByFileID(_ context.Context, fileID int64) (domain.Transcription, bool, error) {
	record, found := f.records[fileID]
	return record, found, nil
}

func (f *fakeTranscriptionStore) Upsert(_ context.Context, record domain.Transcription) error {
	f.records[record.FileID] = record
	return nil
}

func (f *fakeTranscriptionStore) ListUnaggregated(_ context.Context) ([]domain.Transcription, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var unlinked []domain.Transcription
	for _, record := range f.records {
		if record.AggregationID == nil {
			unlinked = append(unlinked, record)
		}
	}
	sort.Slice(unlinked, func(i, j int) bool { return unlinked[i].FileID < unlinked[j].FileID })
	return unlinked, nil
}

func (f *fakeTranscriptionStore) LinkToSummary(_ context.Context, fileID int64, summaryID int64) error {
	if err := f.linkErr[fileID]; err != nil {
		return err
	}
	record, found := f.records[fileID]
	if !found {
		return fmt.Errorf("transcription %d not found", fileID)
	}
	record.AggregationID = &summaryID
	f.records[fileID] = record
	return nil
}

type fakeSummaryStore struct {
	inserted  []domain.Summary
	nextID    int64
	insertErr error
}

func (f *fakeSummaryStore) Insert(_ context.Context, summary domain.Summary) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.nextID++
	summary.ID = f.nextID
	f.inserted = append(f.inserted, summary)
	return f.nextID, nil
}

type fakeSummarizer struct {
	digest string
	err    error
	inputs []string
}

func (f *fakeSummarizer) Summarize(_ context.Context, text string) (string, error) {
	f.inputs = append(f.inputs, text)
	if f.err != nil {
		return "", f.err
	}
	return f.digest, nil
}

type fakeRenderer struct {
	err error
}

func (f *fakeRenderer) Render(digest string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "<html>" + digest + "</html>", nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) Send(_ context.Context, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, html)
	return nil
}
