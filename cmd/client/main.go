// Package main is the interactive MoodKeeper client: a local-first mood
// journal that syncs with the server in the background.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/moodkeeper/MoodKeeper/internal/analytics"
	"github.com/moodkeeper/MoodKeeper/internal/client/session"
	"github.com/moodkeeper/MoodKeeper/internal/client/storage"
	"github.com/moodkeeper/MoodKeeper/internal/logger"
	"github.com/moodkeeper/MoodKeeper/internal/models"
	"github.com/moodkeeper/MoodKeeper/internal/prompts"
)

var (
	version   string
	buildDate string
)

// moodFaces decorate the list and calendar views.
var moodFaces = map[int]string{1: "😢", 2: "😕", 3: "😐", 4: "🙂", 5: "😄"}

// repl runs the interactive shell loop once the user is signed in.
func repl(client *http.Client, baseURL string, sess *session.Session, ls *storage.LocalStore) {
	email := sess.User()
	userKey := models.UserKey(email)

	storage.StartAutoSync(client, baseURL, email, ls)

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("moodkeeper> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, add, list, get <id>, photos <id>, stats, calendar, prompt, chat, sync, exit")
		case "add":
			entry, ok := promptForEntry(scanner)
			if !ok {
				continue
			}
			saved := ls.Append(userKey, entry)
			fmt.Println("Saved entry", saved.ID)
		case "list":
			listEntries(ls.Load(userKey))
		case "get":
			if len(args) < 2 {
				fmt.Println("Usage: get <id>")
				continue
			}
			showEntry(ls.Load(userKey), args[1])
		case "photos":
			if len(args) < 2 {
				fmt.Println("Usage: photos <id>")
				continue
			}
			attachPhoto(scanner, client, baseURL, email, ls, userKey, args[1])
		case "stats":
			printStats(ls.Load(userKey))
		case "calendar":
			printCalendar(ls.Load(userKey))
		case "prompt":
			p := prompts.DailyPick(time.Now())
			fmt.Printf("%s %s\n   %s\n", p.Emoji, p.Title, p.Subtitle)
		case "chat":
			chat(scanner, client, baseURL, email, ls.Load(userKey))
		case "sync":
			if err := storage.SyncWithServer(client, baseURL, email, ls); err != nil {
				fmt.Println("Sync failed:", err)
			} else {
				fmt.Println("Synced")
			}
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

// promptForEntry reads a new entry from the terminal. Only the mood is
// required; everything else can be skipped with an empty line.
func promptForEntry(scanner *bufio.Scanner) (models.MoodEntry, bool) {
	var entry models.MoodEntry

	fmt.Print("Mood (1-5): ")
	if !scanner.Scan() {
		return entry, false
	}
	mood, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		fmt.Println("Mood must be a number between 1 and 5")
		return entry, false
	}
	entry.Mood = mood

	fmt.Print("Intensity (1-10, optional): ")
	if scanner.Scan() {
		if v := strings.TrimSpace(scanner.Text()); v != "" {
			entry.Intensity, _ = strconv.Atoi(v)
		}
	}

	fmt.Print("Note (optional): ")
	if scanner.Scan() {
		entry.Note = strings.TrimSpace(scanner.Text())
	}

	fmt.Print("Tags (comma-separated, optional): ")
	if scanner.Scan() {
		if v := strings.TrimSpace(scanner.Text()); v != "" {
			for _, t := range strings.Split(v, ",") {
				if t = strings.TrimSpace(t); t != "" {
					entry.Tags = append(entry.Tags, t)
				}
			}
		}
	}

	if errs := entry.Validate(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Println(" -", e)
		}
		return entry, false
	}
	return entry, true
}

func listEntries(entries []models.MoodEntry) {
	if len(entries) == 0 {
		fmt.Println("No entries yet. Type 'add' to record your first mood.")
		return
	}
	for _, e := range entries {
		note := e.Note
		if len(note) > 40 {
			note = note[:40] + "…"
		}
		fmt.Printf("%s  %s %d/5  %s  %s\n", e.ID, moodFaces[e.Mood], e.Mood, e.Date, note)
	}
}

func showEntry(entries []models.MoodEntry, id string) {
	for _, e := range entries {
		if e.ID == id {
			b, _ := json.MarshalIndent(e, "", "  ")
			fmt.Println(string(b))
			return
		}
	}
	fmt.Println("Entry not found")
}

// attachPhoto adds a photo URL to an entry, locally and on the server.
func attachPhoto(scanner *bufio.Scanner, client *http.Client, baseURL, email string, ls *storage.LocalStore, userKey, id string) {
	entries := ls.Load(userKey)
	var target *models.MoodEntry
	for i := range entries {
		if entries[i].ID == id {
			target = &entries[i]
			break
		}
	}
	if target == nil {
		fmt.Println("Entry not found")
		return
	}
	if len(target.Photos) >= models.MaxPhotos {
		fmt.Println("This entry already has the maximum number of photos")
		return
	}

	fmt.Print("Photo URL: ")
	if !scanner.Scan() {
		return
	}
	url := strings.TrimSpace(scanner.Text())
	if url == "" {
		return
	}

	target.Photos = append(target.Photos, models.Photo{ID: uuid.NewString(), URL: url})
	ls.Update(userKey, *target)

	body, _ := json.Marshal(map[string]any{"photos": target.Photos})
	req, err := http.NewRequest(http.MethodPut, baseURL+"/api/entries/"+id+"/photos", bytes.NewReader(body))
	if err != nil {
		fmt.Println("Photo saved locally; server update failed:", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Email", email)
	resp, err := client.Do(req)
	if err != nil {
		fmt.Println("Photo saved locally; server update failed:", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		fmt.Println("Photo saved locally; server returned status", resp.StatusCode)
		return
	}
	fmt.Println("Photo attached")
}

func printStats(entries []models.MoodEntry) {
	s := analytics.Summarize(entries, 7, time.Now())
	fmt.Printf("Entries: %d   Average mood: %.2f   Trend: %s\n", s.TotalEntries, s.AverageMood, s.WeeklyTrend)
	for mood := models.MoodMin; mood <= models.MoodMax; mood++ {
		fmt.Printf("  %s %d/5: %s\n", moodFaces[mood], mood, strings.Repeat("#", s.MoodDistribution[mood]))
	}
	for _, d := range s.DailyAverages {
		if d.Average == nil {
			fmt.Printf("  %-12s —\n", d.Label)
		} else {
			fmt.Printf("  %-12s %.2f (%d entries)\n", d.Label, *d.Average, d.Count)
		}
	}
}

func printCalendar(entries []models.MoodEntry) {
	byDay := analytics.GroupByDay(entries)
	if len(byDay) == 0 {
		fmt.Println("No entries yet")
		return
	}
	for day, dayEntries := range byDay {
		sum := 0
		for _, e := range dayEntries {
			sum += e.Mood
		}
		avg := (sum + len(dayEntries)/2) / len(dayEntries)
		fmt.Printf("%-10s %s (%d entries)\n", day, moodFaces[avg], len(dayEntries))
	}
}

// chat runs one round-trip with the AI companion, sharing the latest mood
// as context.
func chat(scanner *bufio.Scanner, client *http.Client, baseURL, email string, entries []models.MoodEntry) {
	fmt.Print("You: ")
	if !scanner.Scan() {
		return
	}
	message := strings.TrimSpace(scanner.Text())
	if message == "" {
		return
	}

	payload := map[string]any{"userMessage": message}
	if len(entries) > 0 {
		latest := entries[0]
		payload["moodContext"] = map[string]any{
			"currentMood": map[string]any{
				"mood":      latest.Mood,
				"intensity": latest.Intensity,
				"tags":      latest.Tags,
				"date":      latest.Date,
			},
		}
	}

	b, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/ai/chat", bytes.NewReader(b))
	if err != nil {
		fmt.Println("Chat unavailable:", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Email", email)

	resp, err := client.Do(req)
	if err != nil {
		fmt.Println("Chat unavailable:", err)
		return
	}
	defer resp.Body.Close()

	var out struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		fmt.Println("Chat unavailable:", err)
		return
	}
	fmt.Println("Companion:", out.Response)
}

// signIn walks the session state machine until the user is signed in.
func signIn(scanner *bufio.Scanner, sess *session.Session, email string) error {
	switch sess.GetCurrentSession() {
	case session.StateSignedIn:
		return nil
	default:
	}

	err := sess.SignIn(email)
	if err != nil {
		var authErr *session.AuthError
		ok := false
		if ae, isAuth := err.(*session.AuthError); isAuth {
			authErr, ok = ae, true
		}
		if !ok {
			return err
		}
		switch authErr.Code {
		case "UserNotFoundException":
			fmt.Println("No account for", email, "- signing up")
			if err := sess.SignUp(email); err != nil {
				return err
			}
		case "UserNotConfirmedException":
			// Session is already in needsConfirmation.
		default:
			return err
		}
	}

	for sess.State() == session.StateNeedsConfirmation {
		fmt.Print("Confirmation code (or 'resend'): ")
		if !scanner.Scan() {
			return fmt.Errorf("confirmation aborted")
		}
		code := strings.TrimSpace(scanner.Text())
		if code == "resend" {
			if err := sess.ResendConfirmationCode(); err != nil {
				fmt.Println("Resend failed:", err)
			} else {
				fmt.Println("Code sent")
			}
			continue
		}
		if err := sess.ConfirmSignUp(code); err != nil {
			fmt.Println("Confirmation failed:", err)
			continue
		}
	}
	return nil
}

// main parses flags, signs the user in, and starts the shell.
func main() {
	var (
		baseURL   string
		email     string
		storePath string
		showVer   bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	flag.StringVar(&email, "email", "", "account email")
	flag.StringVar(&storePath, "store", "moodkeeper.json", "path to the local entry store")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("MoodKeeper Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}
	if email == "" {
		fmt.Println("please provide -email=you@example.com")
		os.Exit(1)
	}

	log := logger.New()
	client := &http.Client{Timeout: 15 * time.Second}

	sess := session.New(client, baseURL)
	scanner := bufio.NewScanner(os.Stdin)
	if err := signIn(scanner, sess, email); err != nil {
		fmt.Println("Sign-in failed:", err)
		os.Exit(1)
	}
	fmt.Println("Signed in as", sess.User())

	ls := storage.NewLocalStore(storePath, log.Log)
	repl(client, baseURL, sess, ls)
}
