package version

var (
	GetVersionFrom  = getVersion
	GetRevisionFrom = getRevision
)
