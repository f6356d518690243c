package errors

var (
	ErrEmptyCache = New(
		"EMPTY_CACHE",
		"Cache directory is missing or contains no listing pages",
	)

	ErrNothingToRender = New(
		"NOTHING_TO_RENDER",
		"No mappable points were produced from the cache",
	)

	ErrArtifactWrite = New(
		"ARTIFACT_WRITE_FAILED",
		"Failed to write the map artifact",
	)

	ErrOverlayUnavailable = New(
		"OVERLAY_UNAVAILABLE",
		"School overlay could not be fetched",
	)

	ErrInvalidConfig = New(
		"INVALID_CONFIG",
		"Invalid configuration",
	)

	ErrExportFailed = New(
		"EXPORT_FAILED",
		"Failed to export listings",
	)
)
