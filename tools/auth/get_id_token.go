package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"os"
)

var (
	email           = flag.String("email", "", "account email (usernames must be resolved first)")
	password        = flag.String("password", "", "account password")
	projectAPIToken = flag.String("at", "", "project API token - if not provided, value from env variable PROJECTAPIKEY is used")
)

type verificationResponse struct {
	IDToken string `json:"idToken"`
}

// getIDToken signs in with email and password and returns an idToken usable
// as a Bearer token against the functions.
func getIDToken(email string, password string, projectAPIKey string) string {
	requestBody, err := json.Marshal(map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})

	if err != nil {
		log.Fatalln(err)
		return ""
	}

	resp, err := http.Post(
		"https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword?key="+projectAPIKey,
		"application/json",
		bytes.NewBuffer(requestBody))

	if err != nil {
		log.Fatalf("Verification request err: %s\n", err)
		return ""
	}

	var r verificationResponse
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Error while reading response body: %s\n", err)
		return ""
	}

	if err := json.Unmarshal(body, &r); err != nil {
		log.Fatalf("Response mismatch: %s\n", err)
		return ""
	}

	return r.IDToken
}

func main() {
	flag.Parse()

	if *email == "" || *password == "" {
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *projectAPIToken == "" {
		*projectAPIToken = os.Getenv("PROJECTAPIKEY")
	}

	token := getIDToken(*email, *password, *projectAPIToken)
	if token == "" {
		flag.PrintDefaults()
		return
	}
	fmt.Println(token)
}
