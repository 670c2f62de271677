package ports

// MetricsRecorder contadores de negocio (movimientos, transiciones, impresiones).
type MetricsRecorder interface {
	MovementRecorded(movementType string)
	OrderTransitioned(from, to string)
	PrintJob(result string)
}

// NopMetrics no registra nada.
type NopMetrics struct{}

func (NopMetrics) MovementRecorded(string)          {}
func (NopMetrics) OrderTransitioned(string, string) {}
func (NopMetrics) PrintJob(string)                  {}
