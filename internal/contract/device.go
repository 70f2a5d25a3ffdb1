package contract

import "time"

// CameraStatus is the current state of an attached camera.
type CameraStatus string

const (
	CameraReady   CameraStatus = "ready"
	CameraBusy    CameraStatus = "busy"
	CameraOffline CameraStatus = "offline"
)

func (s CameraStatus) Valid() bool {
	switch s {
	case CameraReady, CameraBusy, CameraOffline:
		return true
	}
	return false
}

// Camera is one camera attached to the orchestrator.
type Camera struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Status     CameraStatus `json:"status"`
	Resolution string       `json:"resolution,omitempty"`
}

func (c *Camera) Validate() error {
	ve := &ValidationError{Resource: "camera"}
	if c.ID == "" {
		ve.addf("id", "required")
	}
	if !c.Status.Valid() {
		ve.addf("status", "unrecognized value %q", string(c.Status))
	}
	return ve.orNil()
}

// CameraList is the payload of the camera listing endpoint.
type CameraList struct {
	Cameras []Camera `json:"cameras"`
}

func (l *CameraList) Validate() error {
	ve := &ValidationError{Resource: "camera_list"}
	for i := range l.Cameras {
		if err := l.Cameras[i].Validate(); err != nil {
			ve.addf("cameras", "entry %d: %v", i, err)
		}
	}
	return ve.orNil()
}

// DoorPosition is the reported state of the container door.
type DoorPosition string

const (
	DoorOpen    DoorPosition = "open"
	DoorClosed  DoorPosition = "closed"
	DoorLocked  DoorPosition = "locked"
	DoorUnknown DoorPosition = "unknown"
)

func (p DoorPosition) Valid() bool {
	switch p {
	case DoorOpen, DoorClosed, DoorLocked, DoorUnknown:
		return true
	}
	return false
}

// DoorState is the container door status reported by the orchestrator.
type DoorState struct {
	State     DoorPosition `json:"state"`
	ChangedAt time.Time    `json:"changed_at"`
}

func (d *DoorState) Validate() error {
	ve := &ValidationError{Resource: "door_state"}
	if !d.State.Valid() {
		ve.addf("state", "unrecognized value %q", string(d.State))
	}
	return ve.orNil()
}

// LogEntry is one orchestrator log line from the legacy tail endpoint.
type LogEntry struct {
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Component string    `json:"component,omitempty"`
}

func (e *LogEntry) Validate() error {
	ve := &ValidationError{Resource: "log_entry"}
	if e.Message == "" {
		ve.addf("message", "required")
	}
	return ve.orNil()
}

// ProvisioningCandidate is a device discovered on the network that could be
// provisioned as an orchestration node.
type ProvisioningCandidate struct {
	Hostname string    `json:"hostname"`
	Address  string    `json:"address"`
	Model    string    `json:"model,omitempty"`
	LastSeen time.Time `json:"last_seen"`
}

func (c *ProvisioningCandidate) Validate() error {
	ve := &ValidationError{Resource: "provisioning_candidate"}
	if c.Address == "" {
		ve.addf("address", "required")
	}
	return ve.orNil()
}
