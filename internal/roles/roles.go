// Package roles persists the job openings candidates can apply for.
package roles

// Profile describes a job opening used to drive screening prompts.
type Profile struct {
	ID                string
	Description       string
	ExtraInstructions string
}
