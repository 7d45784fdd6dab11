package client

import "github.com/krktechnologyandservices/GBV/internal/client/models"

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "gbv.records.v1.RecordService"

// Full method names.
const (
	MethodFetchAll              = "/" + ServiceName + "/FetchAll"
	MethodFetchOne              = "/" + ServiceName + "/FetchOne"
	MethodCreate                = "/" + ServiceName + "/Create"
	MethodUpdate                = "/" + ServiceName + "/Update"
	MethodDelete                = "/" + ServiceName + "/Delete"
	MethodUpdateStatus          = "/" + ServiceName + "/UpdateStatus"
	MethodUploadFile            = "/" + ServiceName + "/UploadFile"
	MethodFetchAttributeCatalog = "/" + ServiceName + "/FetchAttributeCatalog"
)

type Empty struct{}

type IDRequest struct {
	ID int64 `json:"id"`
}

type SaveRequest struct {
	ID     int64         `json:"id,omitempty"`
	Record models.Record `json:"record"`
}

type StatusRequest struct {
	ID     int64 `json:"id"`
	Active bool  `json:"activeStatus"`
}

type RecordsResponse struct {
	Records []models.Record `json:"records"`
}

type RecordResponse struct {
	Record models.Record `json:"record"`
}

type UploadRequest struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

type UploadResponse struct {
	FilePath string `json:"filePath"`
}

type CatalogResponse struct {
	Attributes []models.AttributeDefinition `json:"attributes"`
}
