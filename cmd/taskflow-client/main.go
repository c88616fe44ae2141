// taskflow-client exercises the four interaction styles of the API from
// the command line: unary requests, the SSE update feed, the NDJSON
// batch upload, and the duplex collaboration echo.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
)

var (
	app       = kingpin.New("taskflow-client", "Demo client for the taskflow API.")
	serverURL = app.Flag("server", "Base URL of the taskflow server.").Default("http://localhost:8000").String()

	healthCmd = app.Command("health", "Check server health.")

	tasksCmd     = app.Command("tasks", "Task operations.")
	tasksListCmd = tasksCmd.Command("list", "List all tasks.")
	tasksGetCmd  = tasksCmd.Command("get", "Get a task by ID.")
	tasksGetID   = tasksGetCmd.Arg("id", "Task ID.").Required().String()

	tasksCreateCmd  = tasksCmd.Command("create", "Create a task.")
	createTitle     = tasksCreateCmd.Flag("title", "Task title.").Required().String()
	createDesc      = tasksCreateCmd.Flag("description", "Task description.").Required().String()
	createUserStory = tasksCreateCmd.Flag("user-story", "Narrative user story context.").String()

	perfCmd  = app.Command("performance", "Fetch team performance (unary style).")
	perfTeam = perfCmd.Arg("team", "Team ID.").Required().String()

	watchCmd      = app.Command("watch", "Stream simulated task updates (server-streaming style).")
	watchTeam     = watchCmd.Arg("team", "Team ID.").Required().String()
	watchCount    = watchCmd.Flag("count", "Number of updates to stream.").Default("5").Int()
	watchInterval = watchCmd.Flag("interval", "Interval between updates.").Default("2s").String()

	batchCmd  = app.Command("batch", "Send a batch of status updates (client-streaming style). Reads NDJSON from the file or stdin.")
	batchFile = batchCmd.Arg("file", "NDJSON file of {task_id, new_status} items.").String()

	collabCmd  = app.Command("collaborate", "Collaborate on a task (duplex style). Reads lines from stdin, prints acknowledgements.")
	collabTask = collabCmd.Arg("task", "Task ID.").Required().String()
	collabUser = collabCmd.Flag("user", "User ID sent with each message.").Default("cli").String()
)

func main() {
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	var err error
	switch cmd {
	case healthCmd.FullCommand():
		err = get("/health")
	case tasksListCmd.FullCommand():
		err = get("/tasks")
	case tasksGetCmd.FullCommand():
		err = get("/tasks/" + *tasksGetID)
	case tasksCreateCmd.FullCommand():
		err = createTask()
	case perfCmd.FullCommand():
		err = get("/analytics/teams/" + *perfTeam + "/performance")
	case watchCmd.FullCommand():
		err = watchUpdates()
	case batchCmd.FullCommand():
		err = batchUpdate()
	case collabCmd.FullCommand():
		err = collaborate()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func get(path string) error {
	resp, err := http.Get(*serverURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return printBody(resp.Body)
}

func createTask() error {
	body, err := json.Marshal(map[string]string{
		"title":       *createTitle,
		"description": *createDesc,
		"user_story":  *createUserStory,
	})
	if err != nil {
		return err
	}
	resp, err := http.Post(*serverURL+"/tasks", "application/json", strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return printBody(resp.Body)
}

// watchUpdates consumes the SSE feed, printing each data payload.
func watchUpdates() error {
	url := fmt.Sprintf("%s/analytics/teams/%s/updates?count=%d&interval=%s",
		*serverURL, *watchTeam, *watchCount, *watchInterval)
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return printBody(resp.Body)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if data, ok := strings.CutPrefix(line, "data: "); ok {
			fmt.Println(data)
		}
	}
	return scanner.Err()
}

func batchUpdate() error {
	var in io.Reader = os.Stdin
	if *batchFile != "" {
		f, err := os.Open(*batchFile)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	resp, err := http.Post(*serverURL+"/tasks/batch", "application/x-ndjson", in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return printBody(resp.Body)
}

// collaborate streams stdin lines as collaboration messages and prints
// each acknowledgement as it comes back.
func collaborate() error {
	pr, pw := io.Pipe()
	go func() {
		enc := json.NewEncoder(pw)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			msg := map[string]string{
				"task_id": *collabTask,
				"user_id": *collabUser,
				"action":  "comment",
				"data":    scanner.Text(),
			}
			if err := enc.Encode(msg); err != nil {
				break
			}
		}
		pw.Close()
	}()

	req, err := http.NewRequest(http.MethodPost, *serverURL+"/analytics/tasks/"+*collabTask+"/collaborate", pr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-ndjson")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		fmt.Println(scanner.Text())
	}
	return scanner.Err()
}

func printBody(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
