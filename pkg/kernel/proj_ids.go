package kernel

type JobID string

func NewJobID(id string) JobID { return JobID(id) }
func (r JobID) String() string { return string(r) }
func (r JobID) IsEmpty() bool  { return string(r) == "" }

type ApplicationID string

func NewApplicationID(id string) ApplicationID { return ApplicationID(id) }
func (r ApplicationID) String() string         { return string(r) }
func (r ApplicationID) IsEmpty() bool          { return string(r) == "" }

type SavedJobID string

func NewSavedJobID(id string) SavedJobID { return SavedJobID(id) }
func (r SavedJobID) String() string      { return string(r) }

type NotificationID string

func NewNotificationID(id string) NotificationID { return NotificationID(id) }
func (r NotificationID) String() string          { return string(r) }
func (r NotificationID) IsEmpty() bool           { return string(r) == "" }

type MessageID string

func NewMessageID(id string) MessageID { return MessageID(id) }
func (r MessageID) String() string     { return string(r) }
func (r MessageID) IsEmpty() bool      { return string(r) == "" }
