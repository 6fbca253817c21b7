package workflow

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/leasehub/hubspot-app-sheets/config"
	"github.com/leasehub/hubspot-app-sheets/hubspot"
	"github.com/leasehub/hubspot-app-sheets/sheet"
)

type call struct {
	Method     string
	Path       string
	Properties map[string]string
	Inputs     []string
}

// crm is a fake HubSpot API that records every call.
type crm struct {
	sync.Mutex
	server       *httptest.Server
	calls        []call
	associations map[string][]string
	created      map[string]string
	reject       func(path string, properties map[string]string) (int, string)
	detailStatus int
}

func newCRM(t *testing.T) *crm {
	c := &crm{
		associations: map[string][]string{},
		created:      map[string]string{},
	}

	c.server = httptest.NewServer(http.HandlerFunc(c.handle))
	t.Cleanup(c.server.Close)

	return c
}

func (c *crm) client() *hubspot.Client {
	return hubspot.NewClientWithDoer(c.server.URL, c.server.Client())
}

func (c *crm) handle(w http.ResponseWriter, rq *http.Request) {
	c.Lock()
	defer c.Unlock()

	body, _ := io.ReadAll(rq.Body)
	record := call{Method: rq.Method, Path: rq.URL.Path}

	switch {
	case rq.Method == http.MethodPatch:
		request := struct {
			Properties map[string]string `json:"properties"`
		}{}
		json.Unmarshal(body, &request)
		record.Properties = request.Properties
		c.calls = append(c.calls, record)

		if c.reject != nil {
			if status, message := c.reject(rq.URL.Path, request.Properties); status != 0 {
				w.WriteHeader(status)
				fmt.Fprintf(w, `{"status":"error","message":%q}`, message)
				return
			}
		}

		fmt.Fprint(w, `{"id":"1"}`)

	case rq.Method == http.MethodGet && strings.Contains(rq.URL.Path, "/associations/"):
		c.calls = append(c.calls, record)

		ids, ok := c.associations[rq.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"status":"error","message":"Object not found"}`)
			return
		}

		results := []map[string]any{}
		for _, id := range ids {
			results = append(results, map[string]any{"toObjectId": json.Number(id)})
		}
		json.NewEncoder(w).Encode(map[string]any{"results": results})

	case rq.Method == http.MethodPost && strings.HasSuffix(rq.URL.Path, "/batch/read"):
		request := struct {
			Inputs []struct {
				ID string `json:"id"`
			} `json:"inputs"`
		}{}
		json.Unmarshal(body, &request)
		for _, input := range request.Inputs {
			record.Inputs = append(record.Inputs, input.ID)
		}
		c.calls = append(c.calls, record)

		if c.detailStatus != 0 {
			w.WriteHeader(c.detailStatus)
			fmt.Fprint(w, `{"message":"internal error"}`)
			return
		}

		results := []map[string]any{}
		for _, id := range record.Inputs {
			properties := map[string]any{"createdate": nil}
			if v, ok := c.created[id]; ok {
				properties["createdate"] = v
			}
			results = append(results, map[string]any{"id": id, "properties": properties})
		}
		json.NewEncoder(w).Encode(map[string]any{"status": "COMPLETE", "results": results})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (c *crm) Calls() []call {
	c.Lock()
	defer c.Unlock()

	return append([]call{}, c.calls...)
}

func (c *crm) count(method string) int {
	n := 0
	for _, v := range c.Calls() {
		if v.Method == method {
			n++
		}
	}

	return n
}

func newWorkflow(t *testing.T, store sheet.Store, fake *crm) (*Workflow, *test.Hook) {
	conf := config.NewConfig()
	conf.Token = "pat-eu1-test"
	conf.BatchPause = 0

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	return &Workflow{
		Store:  store,
		CRM:    fake.client(),
		Config: conf,
		Log:    logrus.NewEntry(logger),
	}, hook
}

// dateOf is a date cell as read from a worksheet.
func dateOf(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
