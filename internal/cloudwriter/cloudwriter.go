package cloudwriter

// CloudWriter buffers export bytes and flushes them to object storage on
// Close. Draft CSVs and weekly metrics parquet go through this when the
// export destination is not local.
type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}
