package server

// muxKeys describes enum with known API tokens.
type muxKeys string

const (
	// urlGarageID describes garage ID URL param.
	urlGarageID muxKeys = "garageID"
	// urlCommandName describes garage command URL param.
	urlCommandName muxKeys = "commandName"
	// urlLockID describes discovered lock URL param.
	urlLockID muxKeys = "lockID"
	// ctxtUserName describes user in the context.
	ctxtUserName muxKeys = "user"
	// routeAPI describes base api prefix.
	routeAPI = "/api/v1"
	// queryName describes discovery name filter.
	queryName = "name"
)

const (
	cmdOperate    = "operate"
	cmdConnect    = "connect"
	cmdDisconnect = "disconnect"
	cmdLock       = "lock"
	cmdUnlock     = "unlock"
)
