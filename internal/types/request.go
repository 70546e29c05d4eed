package types

type RequestLogin struct {
	Password string `json:"password"`
}

type RequestPairCode struct {
	Phone string `json:"phone"`
}

type RequestAddContact struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

type RequestImportCSV struct {
	CSV string `json:"csv"`
}

type RequestSetTemplate struct {
	Template string `json:"template"`
}

type RequestLoadTemplate struct {
	Filename string `json:"filename"`
}

type RequestSelectMedia struct {
	Filename string `json:"filename"`
}

type RequestPreview struct {
	ContactName  string `json:"contactName"`
	ContactPhone string `json:"contactPhone"`
}

type RequestSend struct {
	ContactID     string `json:"contactId"`
	ContactName   string `json:"contactName"`
	ContactPhone  string `json:"contactPhone"`
	CustomMessage string `json:"customMessage"`
}
