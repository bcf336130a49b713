package transport

type TaskCreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	AssignedTo  []string `json:"assigned_to"`
	Status      string   `json:"status"`
}

type TaskUpdateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	AssignedTo  []string `json:"assigned_to"`
	Status      *string  `json:"status"`
}

type TaskStatusRequest struct {
	Status string `json:"status"`
}

type TaskListRequest struct {
	AssignedTo []string `json:"assigned_to"`
	CreatedBy  string   `json:"created_by"`
	Status     string   `json:"status"`
}

type NotificationCreateRequest struct {
	AssignedTo     []string `json:"assigned_to"`
	Message        string   `json:"message"`
	Type           string   `json:"type"`
	RelatedTask    string   `json:"related_task"`
	RelatedMessage string   `json:"related_message"`
}

type MessageSendRequest struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

type AuthLoginRequest struct {
	UserID string `json:"user_id"`
	TTL    int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}
