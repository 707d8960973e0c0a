package addon

// Result statuses reported by the resolution service for each item of
// a resolve or modify batch.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusFailure = "failure"
)

// ModifyResult is the per-item outcome of a resolve or modify call,
// keyed back to the definition that produced it.
type ModifyResult struct {
	Defn    Defn   `json:"defn"`
	Status  string `json:"status"`
	Addon   *Addon `json:"addon,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the item succeeded and carries a resolved add-on.
func (r ModifyResult) OK() bool {
	return r.Status == StatusSuccess && r.Addon != nil
}
