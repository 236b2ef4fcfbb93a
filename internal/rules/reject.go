package rules

import (
	"strings"

	"github.com/spigell/job-ranker/internal/jobs"
)

// KeywordReject excludes postings whose title or description contains a blacklisted term.
type KeywordReject struct {
	RejectBase
	Keywords Keywords
}

func (r *KeywordReject) Type() Type { return TypeKeyword }

func (r *KeywordReject) matches(job *jobs.Posting) bool {
	return r.Keywords.Match(job.Text(), job.Language)
}

// JobTypeReject excludes postings of the listed job types.
type JobTypeReject struct {
	RejectBase
	RejectTypes []string
}

func (r *JobTypeReject) Type() Type { return TypeJobType }

func (r *JobTypeReject) matches(job *jobs.Posting) bool {
	jobType := strings.TrimSpace(job.JobType)
	if jobType == "" {
		return false
	}
	for _, rejected := range r.RejectTypes {
		if strings.EqualFold(strings.TrimSpace(rejected), jobType) {
			return true
		}
	}
	return false
}

// DistanceReject excludes postings farther than MaxDistanceKm.
// Remote postings pass when AllowRemote is set; an unknown distance never rejects.
type DistanceReject struct {
	RejectBase
	MaxDistanceKm float64
	AllowRemote   bool
}

func (r *DistanceReject) Type() Type { return TypeDistance }

func (r *DistanceReject) matches(job *jobs.Posting) bool {
	if r.AllowRemote && job.IsRemote() {
		return false
	}
	return job.DistanceKm != nil && *job.DistanceKm > r.MaxDistanceKm
}
