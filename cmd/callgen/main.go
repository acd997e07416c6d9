// Command callgen floods a running server with randomized calls, useful for
// demoing the dispatch flow and watching the realtime feeds.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type patient struct {
	ID uuid.UUID `json:"id"`
}

type callRequest struct {
	Reason    string    `json:"reason"`
	Address   string    `json:"address"`
	DateTime  time.Time `json:"date_time"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Type      string    `json:"type"`
	PatientID uuid.UUID `json:"patient_id"`
}

var reasons = []struct {
	reason   string
	callType string
}{
	{"Unconscious person", "critical"},
	{"Road accident with injuries", "critical"},
	{"Chest pain", "critical"},
	{"High fever, child", "important"},
	{"Severe allergic reaction", "important"},
	{"Deep cut, heavy bleeding", "important"},
	{"High blood pressure", "common"},
	{"Back pain after a fall", "common"},
	{"Persistent dizziness", "common"},
}

var streets = []string{
	"Nevsky Prospekt", "Liteyny Prospekt", "Sadovaya Street",
	"Moskovsky Prospekt", "Bolshaya Morskaya Street", "Rubinstein Street",
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "server base url")
	token := flag.String("token", "", "dispatcher JWT")
	count := flag.Int("n", 10, "number of calls to create")
	interval := flag.Duration("interval", 2*time.Second, "pause between calls")
	flag.Parse()

	if *token == "" {
		log.Fatal("a dispatcher token is required, pass -token")
	}

	client := &http.Client{Timeout: 10 * time.Second}

	patients, err := fetchPatients(client, *baseURL, *token)
	if err != nil {
		log.Fatalf("failed to fetch patients: %v", err)
	}
	if len(patients) == 0 {
		log.Fatal("no patients registered, create at least one first")
	}

	for i := 0; i < *count; i++ {
		req := randomCall(patients)
		if err := postCall(client, *baseURL, *token, req); err != nil {
			log.Printf("call %d failed: %v", i+1, err)
		} else {
			log.Printf("call %d created: %s (%s)", i+1, req.Reason, req.Type)
		}
		time.Sleep(*interval)
	}
}

func randomCall(patients []patient) callRequest {
	r := reasons[rand.Intn(len(reasons))]
	street := streets[rand.Intn(len(streets))]

	// Central Saint Petersburg bounding box.
	lat := 59.75 + rand.Float64()*0.30
	lon := 29.80 + rand.Float64()*0.80

	return callRequest{
		Reason:    r.reason,
		Address:   fmt.Sprintf("%s, %d", street, 1+rand.Intn(120)),
		DateTime:  time.Now(),
		Lat:       lat,
		Lon:       lon,
		Type:      r.callType,
		PatientID: patients[rand.Intn(len(patients))].ID,
	}
}

func fetchPatients(client *http.Client, baseURL, token string) ([]patient, error) {
	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/patients", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var patients []patient
	if err := json.NewDecoder(resp.Body).Decode(&patients); err != nil {
		return nil, err
	}
	return patients, nil
}

func postCall(client *http.Client, baseURL, token string, call callRequest) error {
	body, err := json.Marshal(call)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/calls", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
