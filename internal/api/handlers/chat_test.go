package handlers_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/hansei/backend/internal/service"
	"github.com/hansei/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatSendResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"sessionId"`
}

type chatHistoryResponse struct {
	History []struct {
		ID     string `json:"id"`
		Text   string `json:"text"`
		Sender string `json:"sender"`
	} `json:"history"`
}

func TestChatHandler_Send(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ts.AI.SetReply("tell me more about that")

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp := testutil.DoAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/chat"), token,
		map[string]string{"message": "I had a strange dream"})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var result chatSendResponse
	testutil.AssertJSONResponse(t, resp, &result)
	assert.Equal(t, "tell me more about that", result.Reply)
	_, err := uuid.Parse(result.SessionID)
	assert.NoError(t, err)
}

func TestChatHandler_Send_EmptyMessage(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp := testutil.DoAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/chat"), token,
		map[string]string{"message": ""})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
}

func TestChatHandler_Send_EngineDown(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ts.AI.SetDown(true)

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp := testutil.DoAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/chat"), token,
		map[string]string{"message": "anyone home?"})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var result chatSendResponse
	testutil.AssertJSONResponse(t, resp, &result)
	assert.Equal(t, service.FallbackReply, result.Reply)
}

func TestChatHandler_History(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ts.AI.SetReply("that sounds exciting")

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	// No session yet: empty history.
	resp := testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/chat/history"), token, nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var empty chatHistoryResponse
	testutil.AssertJSONResponse(t, resp, &empty)
	resp.Body.Close()
	assert.Empty(t, empty.History)

	resp = testutil.DoAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/chat"), token,
		map[string]string{"message": "I started a new project"})
	var sent chatSendResponse
	testutil.AssertJSONResponse(t, resp, &sent)
	resp.Body.Close()

	resp = testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/chat/history"), token, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var result chatHistoryResponse
	testutil.AssertJSONResponse(t, resp, &result)
	require.Len(t, result.History, 2)
	assert.Equal(t, "I started a new project", result.History[0].Text)
	assert.Equal(t, "user", result.History[0].Sender)
	assert.Equal(t, "that sounds exciting", result.History[1].Text)
	assert.Equal(t, "ai", result.History[1].Sender)

	// Explicit session ID returns the same transcript.
	resp2 := testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/chat/history/"+sent.SessionID), token, nil)
	defer resp2.Body.Close()
	testutil.AssertStatusCode(t, resp2, http.StatusOK)
	var byID chatHistoryResponse
	testutil.AssertJSONResponse(t, resp2, &byID)
	assert.Len(t, byID.History, 2)
}

func TestChatHandler_History_ForeignSession(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, ownerToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	_, intruderToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp := testutil.DoAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/chat"), ownerToken,
		map[string]string{"message": "just between us"})
	var sent chatSendResponse
	testutil.AssertJSONResponse(t, resp, &sent)
	resp.Body.Close()

	resp = testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/chat/history/"+sent.SessionID), intruderToken, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}

func TestChatHandler_EndSession(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp := testutil.DoAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/chat/end-session"), token, nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var result map[string]string
	testutil.AssertJSONResponse(t, resp, &result)
	resp.Body.Close()
	assert.Equal(t, "No active session to close", result["message"])

	resp = testutil.DoAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/chat"), token,
		map[string]string{"message": "hello"})
	resp.Body.Close()

	resp = testutil.DoAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/chat/end-session"), token, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertJSONResponse(t, resp, &result)
	assert.Equal(t, "Session closed successfully", result["message"])
}

func TestChatHandler_DeleteSession(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp := testutil.DoAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/chat"), token,
		map[string]string{"message": "forget this later"})
	var sent chatSendResponse
	testutil.AssertJSONResponse(t, resp, &sent)
	resp.Body.Close()

	resp = testutil.DoAuthenticatedRequest(t, http.MethodDelete, ts.APIURL("/chat/history/"+sent.SessionID), token, nil)
	resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp = testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/chat/history/"+sent.SessionID), token, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}
