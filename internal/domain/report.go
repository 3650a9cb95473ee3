package domain

// ReportJob is a request to materialize a catalog snapshot. It carries no
// payload beyond its identity; the snapshot is taken at consumption time.
type ReportJob struct {
	ID string `json:"id"`
}
