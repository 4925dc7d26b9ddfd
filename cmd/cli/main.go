package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"minute-empire-backend/internal/model"
)

const (
	defaultServerAddr = "localhost:3001"
	cliVersion        = "1.0.0"
	cliName           = "Minute Empire CLI"
)

// ClientState holds everything the UI renders.
type ClientState struct {
	UserID      string
	VillageID   string
	Village     *model.Village
	Connected   bool
	LastCommand string
	LastResult  string
}

type CLIClient struct {
	conn      *websocket.Conn
	httpBase  string
	userID    string
	villageID string
	done      chan struct{}
	closed    bool
	ui        *UI
	state     *ClientState
}

func main() {
	fmt.Printf("%s v%s\n", cliName, cliVersion)
	fmt.Println("Interactive terminal client for the Minute Empire backend")
	fmt.Println("Type 'help' for available commands or 'quit' to exit")
	fmt.Println()

	serverAddr := defaultServerAddr
	if len(os.Args) > 1 {
		serverAddr = os.Args[1]
	}
	userID := os.Getenv("ME_USER_ID")
	if userID == "" {
		fmt.Print("User ID: ")
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		userID = strings.TrimSpace(line)
	}
	if userID == "" {
		log.Fatal("a user id is required (set ME_USER_ID or enter one at the prompt)")
	}

	client := &CLIClient{
		httpBase: "http://" + serverAddr + "/api/v1",
		userID:   userID,
		done:     make(chan struct{}),
		ui:       NewUI(),
		state:    &ClientState{UserID: userID},
	}

	if err := client.connect(serverAddr); err != nil {
		log.Fatalf("failed to connect to server: %v", err)
	}
	defer client.conn.Close()

	fmt.Printf("connected to server at %s as %s\n\n", serverAddr, userID)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	go client.readMessages()

	go func() {
		<-interrupt
		fmt.Println("\nshutting down...")
		if !client.closed {
			client.closed = true
			close(client.done)
		}
		client.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		time.Sleep(200 * time.Millisecond)
		os.Exit(0)
	}()

	client.commandLoop()
}

func (c *CLIClient) connect(serverAddr string) error {
	u := url.URL{Scheme: "ws", Host: serverAddr, Path: "/ws"}
	header := http.Header{}
	header.Set("X-User-ID", c.userID)

	var err error
	c.conn, _, err = websocket.DefaultDialer.Dial(u.String(), header)
	if err != nil {
		return fmt.Errorf("dial error: %w", err)
	}
	c.state.Connected = true
	return nil
}

func (c *CLIClient) readMessages() {
	for {
		select {
		case <-c.done:
			return
		default:
			var msg wsInboundFrame
			if err := c.conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					fmt.Printf("websocket error: %v\n", err)
				}
				if !c.closed {
					c.closed = true
					close(c.done)
				}
				return
			}
			c.handleFrame(msg)
		}
	}
}

// wsInboundFrame mirrors websocket.OutboundMessage's JSON shape without
// importing the delivery package's apierrors-typed field, so the CLI stays
// decoupled from the server's internal error types.
type wsInboundFrame struct {
	Type      string                 `json:"type"`
	Result    map[string]interface{} `json:"result,omitempty"`
	VillageID string                 `json:"village_id,omitempty"`
	Message   string                 `json:"message,omitempty"`
}

func (c *CLIClient) handleFrame(msg wsInboundFrame) {
	switch msg.Type {
	case "result":
		text := "command submitted"
		if msg.Result != nil {
			if success, _ := msg.Result["success"].(bool); success {
				text = "ok"
			} else if m, ok := msg.Result["message"].(string); ok {
				text = "rejected: " + m
			}
		}
		c.ui.SetLastCommand(c.state.LastCommand, c.ui.RenderMessage(resultStyle(msg.Result), text))
		c.refreshVillage()

	case "map_update":
		c.refreshVillage()

	case "error":
		c.ui.SetLastCommand(c.state.LastCommand, c.ui.RenderMessage("error", msg.Message))
	}
	c.refreshDisplay()
}

func resultStyle(result map[string]interface{}) string {
	if result == nil {
		return "info"
	}
	if success, _ := result["success"].(bool); success {
		return "success"
	}
	return "error"
}

func (c *CLIClient) commandLoop() {
	reader := bufio.NewReader(os.Stdin)
	c.refreshDisplay()

	for {
		select {
		case <-c.done:
			return
		default:
		}

		fmt.Print(c.ui.RenderPrompt())
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if c.processCommand(input) {
			return
		}
	}
}

func (c *CLIClient) processCommand(input string) bool {
	fields := strings.Fields(input)
	verb := strings.ToLower(fields[0])

	switch verb {
	case "help", "h":
		c.ui.SetLastCommand(input, c.helpText())
		c.refreshDisplay()
		return false

	case "quit", "exit", "q":
		fmt.Println("goodbye")
		if !c.closed {
			c.closed = true
			close(c.done)
		}
		return true

	case "select":
		if len(fields) != 2 {
			c.ui.SetLastCommand(input, c.ui.RenderMessage("error", "usage: select <village_id>"))
			c.refreshDisplay()
			return false
		}
		c.villageID = fields[1]
		c.refreshVillage()
		c.ui.SetLastCommand(input, c.ui.RenderMessage("success", "selected village "+c.villageID))
		c.refreshDisplay()
		return false

	case "villages":
		c.listVillages(input)
		return false

	case "clear", "cls":
		c.ui.ClearCommandOutput()
		c.refreshDisplay()
		return false

	default:
		c.submitCommand(input)
		return false
	}
}

// submitCommand wraps any other input as a Minute Empire command line and
// sends it as-is: parsing and validation happen server-side.
func (c *CLIClient) submitCommand(input string) {
	if c.villageID == "" {
		c.ui.SetLastCommand(input, c.ui.RenderMessage("error", "no village selected; use 'villages' then 'select <id>'"))
		c.refreshDisplay()
		return
	}

	c.state.LastCommand = input
	frame := map[string]string{
		"type":       "command",
		"village_id": c.villageID,
		"command":    input,
	}
	if err := c.conn.WriteJSON(frame); err != nil {
		c.ui.SetLastCommand(input, c.ui.RenderMessage("error", fmt.Sprintf("send failed: %v", err)))
		c.refreshDisplay()
	}
}

func (c *CLIClient) listVillages(input string) {
	req, err := http.NewRequest(http.MethodGet, c.httpBase+"/villages", nil)
	if err != nil {
		c.ui.SetLastCommand(input, c.ui.RenderMessage("error", err.Error()))
		c.refreshDisplay()
		return
	}
	req.Header.Set("X-User-ID", c.userID)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.ui.SetLastCommand(input, c.ui.RenderMessage("error", fmt.Sprintf("request failed: %v", err)))
		c.refreshDisplay()
		return
	}
	defer resp.Body.Close()

	var villages []model.Village
	if err := json.NewDecoder(resp.Body).Decode(&villages); err != nil {
		c.ui.SetLastCommand(input, c.ui.RenderMessage("error", fmt.Sprintf("decode failed: %v", err)))
		c.refreshDisplay()
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d village(s):\n", len(villages))
	for _, v := range villages {
		fmt.Fprintf(&b, "  %s  %-16s (%d,%d)\n", v.ID, v.Name, v.Location.X, v.Location.Y)
	}
	b.WriteString("\nuse 'select <village_id>' to choose one")
	c.ui.SetLastCommand(input, b.String())
	c.refreshDisplay()
}

func (c *CLIClient) refreshVillage() {
	if c.villageID == "" {
		return
	}
	req, err := http.NewRequest(http.MethodGet, c.httpBase+"/villages/"+c.villageID, nil)
	if err != nil {
		return
	}
	req.Header.Set("X-User-ID", c.userID)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return
	}

	var village model.Village
	if err := json.NewDecoder(resp.Body).Decode(&village); err != nil {
		return
	}
	c.state.Village = &village
	c.state.VillageID = village.ID
}

func (c *CLIClient) helpText() string {
	return strings.Join([]string{
		"available commands:",
		"  help, h                              show this help",
		"  quit, exit, q                         exit the client",
		"  villages                              list your villages",
		"  select <village_id>                   choose the active village",
		"  clear, cls                            clear the output area",
		"",
		"game commands (sent to the selected village):",
		"  create <type> field|building in <slot>",
		"  upgrade field|building in <slot>",
		"  destroy field|building in <slot>",
		"  train <qty> <troop_type>",
		"  move <troop_id> to <x>,<y>",
		"  attack <troop_id> to <x>,<y>",
	}, "\n")
}

func (c *CLIClient) refreshDisplay() {
	c.ui.UpdateState(c.state)
	fmt.Print("\033[2J\033[H")
	fmt.Println(c.ui.RenderFullDisplay())
	fmt.Println()
}
