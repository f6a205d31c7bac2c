package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

var (
	baseURL   = envOr("SMOKE_BASE_URL", "http://localhost:3000/api")
	userToken = os.Getenv("SMOKE_USER_TOKEN")
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
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
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{} // No timeout, message streaming can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("🚀 Starting Chat API Smoke Test\n")

	if userToken == "" {
		color.Red("SMOKE_USER_TOKEN is not set")
		os.Exit(1)
	}

	// 1. Create a research chat
	color.Yellow("\n1. Create Research Chat")
	createReq := map[string]interface{}{
		"fileId":   "",
		"message":  "What does the statute of limitations cover?",
		"chatType": "RESEARCH",
	}
	resp, body, err := sendRequest("POST", "/chat/v1", userToken, createReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var createResp map[string]interface{}
	json.Unmarshal(body, &createResp)
	prettyPrint(createResp)

	chatID, _ := createResp["chatId"].(string)
	if chatID == "" {
		color.Red("No chatId in response, aborting")
		os.Exit(1)
	}

	// 2. Send a message and consume the stream
	color.Yellow("\n2. Send Message (streaming)")
	msgReq := map[string]interface{}{
		"fileId":   "",
		"chatType": "RESEARCH",
		"message":  "What does the statute of limitations cover?",
		"chatId":   chatID,
		"legalFilter": map[string]interface{}{
			"allFederal": true,
		},
	}
	jsonBody, _ := json.Marshal(msgReq)
	req, _ := http.NewRequest("POST", baseURL+"/message/v1", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+userToken)

	streamResp, err := http.DefaultClient.Do(req)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", streamResp.Status)

	reader := bufio.NewReader(streamResp.Body)
	chunkCount := 0
	for {
		chunk := make([]byte, 512)
		n, err := reader.Read(chunk)
		if n > 0 {
			chunkCount++
			fmt.Print(string(chunk[:n]))
		}
		if err != nil {
			break
		}
	}
	streamResp.Body.Close()
	color.Green("\nReceived %d chunks", chunkCount)

	// 3. List chats
	color.Yellow("\n3. List Chats")
	resp, body, err = sendRequest("GET", "/chat/v1", userToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var chats []map[string]interface{}
	json.Unmarshal(body, &chats)
	prettyPrint(chats)

	// 4. Page messages
	color.Yellow("\n4. Get Messages")
	resp, body, err = sendRequest("GET", "/chat/v1/"+chatID+"/messages?limit=10", userToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var messagesResp map[string]interface{}
	json.Unmarshal(body, &messagesResp)
	prettyPrint(messagesResp)

	// 5. Delete the chat
	color.Yellow("\n5. Delete Chat")
	resp, body, err = sendRequest("DELETE", "/chat/v1/"+chatID, userToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	color.Cyan("\n✅ Smoke test finished")
}
