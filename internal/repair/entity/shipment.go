package entity

// ShipmentStatus 物流节点状态
const (
	ShipmentStatusReceived  = "RECEIVED"
	ShipmentStatusInTransit = "IN_TRANSIT"
	ShipmentStatusDelivered = "DELIVERED"
)

// Carrier 承运商，仅前三个支持物流查询
const (
	CarrierKerry     = "Kerry Express"
	CarrierFlash     = "Flash Express"
	CarrierJT        = "J&T Express"
	CarrierPost      = "Postal Service"
	CarrierMessenger = "Messenger"
	CarrierPickup    = "Customer Pickup"
)

// TrackableCarriers 支持查询的承运商
var TrackableCarriers = []string{CarrierKerry, CarrierFlash, CarrierJT}

// IsTrackableCarrier 承运商是否支持物流查询
func IsTrackableCarrier(carrier string) bool {
	return contains(TrackableCarriers, carrier)
}

// ShipmentStep 物流节点
type ShipmentStep struct {
	Status      string `json:"status"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Timestamp   string `json:"timestamp"`
}

// ShipmentInfo 物流查询结果（Steps 按时间倒序）
type ShipmentInfo struct {
	Carrier        string         `json:"carrier"`
	TrackingNumber string         `json:"tracking_number"`
	CurrentStatus  string         `json:"current_status"`
	LastUpdate     string         `json:"last_update"`
	Steps          []ShipmentStep `json:"steps"`
}
