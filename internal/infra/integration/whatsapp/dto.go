package whatsapp

type SendMessageInput struct {
	PhoneNumber string // Ex: "(11) 99999-9999" ou "5511999999999"
	Text        string
}

type SendMessageResponse struct {
	Key struct {
		ID        string `json:"id"`
		RemoteJID string `json:"remoteJid"`
	} `json:"key"`
	Status string `json:"status"`
}

type CreateInstanceResponse struct {
	Instance struct {
		InstanceName string `json:"instanceName"`
		Status       string `json:"status"`
	} `json:"instance"`
	QRCode struct {
		Base64 string `json:"base64"`
	} `json:"qrcode"`
}

type sendTextRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

type createInstanceRequest struct {
	InstanceName string `json:"instanceName"`
	QRCode       bool   `json:"qrcode"`
	Integration  string `json:"integration"`
}

type connectionStateResponse struct {
	Instance struct {
		State string `json:"state"`
	} `json:"instance"`
}
