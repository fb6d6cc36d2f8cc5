package domain

// SubjectID is the authenticated caller identity. With basic auth this is the username
// presented by the policy step.
type SubjectID string
