package accounting

// Journal is an accounting journal of the target company
type Journal struct {
	ID         int64
	Name       string
	Code       string
	OriginalID int64
}

// Partner is a customer or supplier of the target company
type Partner struct {
	ID         int64
	Name       string
	OriginalID int64
}
