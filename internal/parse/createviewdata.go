package parse

// CreateViewData is a parsed CREATE VIEW statement: the view's name and
// the query it stands for, stored in the catalog as reconstructed SQL
// text rather than a parsed plan.
type CreateViewData struct {
	viewName  string
	queryData *QueryData
}

func NewCreateViewData(viewName string, queryData *QueryData) *CreateViewData {
	return &CreateViewData{viewName: viewName, queryData: queryData}
}

func (cvd *CreateViewData) ViewName() string {
	return cvd.viewName
}

func (cvd *CreateViewData) ViewDef() string {
	return cvd.queryData.String()
}
