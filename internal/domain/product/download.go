package product

// DownloadReport partitions a bulk download into succeeded and failed products.
type DownloadReport struct {
	// Succeeded maps product id to the downloaded file path.
	Succeeded map[string]string
	// Failed lists product ids in result set order.
	Failed []string
}

// NewDownloadReport creates an empty report.
func NewDownloadReport() DownloadReport {
	return DownloadReport{Succeeded: make(map[string]string)}
}
