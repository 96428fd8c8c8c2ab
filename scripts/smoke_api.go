package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(body []byte) {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Println(string(body))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // no timeout; first inference call loads the model
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("Starting persona/document matching smoke test\n")

	color.Yellow("\n1. Save Persona")
	resp, body, err := sendRequest("POST", "/persona/v1", map[string]interface{}{
		"name":             "Maria Alvarez",
		"role":             "Owner of a small trucking company",
		"location":         "Texas",
		"industry":         "Freight transportation",
		"policy_interests": []string{"emissions standards", "highway safety"},
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	var saved struct {
		Data struct {
			Id string `json:"id"`
		} `json:"data"`
	}
	json.Unmarshal(body, &saved)

	color.Yellow("\n2. Bulk Ingest Documents")
	resp, body, err = sendRequest("POST", "/document/v1/bulk", map[string]interface{}{
		"documents": []map[string]interface{}{
			{
				"document_id":   "EPA-2026-0101-0001",
				"title":         "Revised Heavy-Duty Vehicle Emissions Standards",
				"content":       "The Environmental Protection Agency proposes revised national emissions standards for heavy-duty trucks...",
				"agency_id":     "EPA",
				"document_type": "Proposed Rule",
			},
		},
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n3. Wait for embedding pass")
	time.Sleep(5 * time.Second)

	color.Yellow("\n4. Find Matches")
	resp, body, err = sendRequest("POST", "/match/v1/find", map[string]interface{}{
		"persona_id": saved.Data.Id,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n5. Poll run status")
	for i := 0; i < 30; i++ {
		_, body, err = sendRequest("GET", "/match/v1/status", nil)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		var status struct {
			Data struct {
				State     string `json:"state"`
				Processed int    `json:"processed"`
				Total     int    `json:"total"`
			} `json:"data"`
		}
		json.Unmarshal(body, &status)
		fmt.Printf("state=%s processed=%d/%d\n", status.Data.State, status.Data.Processed, status.Data.Total)
		if status.Data.State == "completed" || status.Data.State == "stopped" || status.Data.State == "failed" {
			break
		}
		time.Sleep(2 * time.Second)
	}

	color.Yellow("\n6. List persisted matches")
	resp, body, err = sendRequest("GET", "/match/v1/persona/"+saved.Data.Id, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Cyan("\nSmoke test finished")
}
