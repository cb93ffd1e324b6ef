package models

// BatchProgressType represents the type of batch progress event
type BatchProgressType string

const (
	BatchProgressStart      BatchProgressType = "batch_start"
	BatchProgressItemDone   BatchProgressType = "item_done"
	BatchProgressItemFailed BatchProgressType = "item_failed"
	BatchProgressComplete   BatchProgressType = "batch_complete"
)

// BatchProgress is sent while a batch of analyses is being documented.
type BatchProgress struct {
	Type    BatchProgressType
	File    string // analysis file of the item
	Current int    // items finished so far
	Total   int
	Error   error // set for BatchProgressItemFailed
}
