package ingest

// MaxReportedErrors caps the error messages returned to the caller. Counters
// keep the true totals.
const MaxReportedErrors = 20

// Kind names an ingestion pipeline.
type Kind string

const (
	KindUpload Kind = "upload"
	KindSync   Kind = "sync"
)

type errorLog struct {
	messages []string
}

func (l *errorLog) add(msg string) {
	if l.messages == nil {
		l.messages = make([]string, 0, MaxReportedErrors)
	}
	if len(l.messages) < MaxReportedErrors {
		l.messages = append(l.messages, msg)
	}
}

func (l *errorLog) list() []string {
	if l.messages == nil {
		return []string{}
	}
	return l.messages
}

// UploadSummary is the result of a bulk upload run. Success is the sum of
// Created and Updated; Failed counts validation and persistence failures.
type UploadSummary struct {
	Total         int      `json:"total"`
	Success       int      `json:"success"`
	Failed        int      `json:"failed"`
	CreatedBrands int      `json:"createdBrands"`
	Created       int      `json:"created"`
	Updated       int      `json:"updated"`
	Errors        []string `json:"errors"`

	log errorLog
}

func (s *UploadSummary) fail(msg string) {
	s.Failed++
	s.log.add(msg)
}

func (s *UploadSummary) finish() {
	s.Success = s.Created + s.Updated
	s.Errors = s.log.list()
}

func (s *UploadSummary) outcomes() map[string]int {
	return map[string]int{"created": s.Created, "updated": s.Updated, "failed": s.Failed}
}

// SyncSummary is the result of a stock-sync run. Skipped counts matched rows
// that carried neither a usable price nor stock.
type SyncSummary struct {
	Total    int      `json:"total"`
	Updated  int      `json:"updated"`
	NotFound int      `json:"notFound"`
	Skipped  int      `json:"skipped,omitempty"`
	Failed   int      `json:"failed,omitempty"`
	Errors   []string `json:"errors"`

	log errorLog
}

func (s *SyncSummary) fail(msg string) {
	s.Failed++
	s.log.add(msg)
}

func (s *SyncSummary) finish() {
	s.Errors = s.log.list()
}

func (s *SyncSummary) outcomes() map[string]int {
	return map[string]int{"updated": s.Updated, "not_found": s.NotFound, "skipped": s.Skipped, "failed": s.Failed}
}
