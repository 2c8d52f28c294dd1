package providers

// ICronProvider defines scheduler used for periodic garage jobs.
type ICronProvider interface {
	AddFunc(spec string, cmd func()) (int, error)
	RemoveFunc(id int)
	Stop()
}
