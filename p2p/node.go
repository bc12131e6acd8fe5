package p2p

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"curvecash/internal/coin"
	"curvecash/internal/curves"
	"curvecash/internal/curvetree"
)

// Node represents a participant in the coin network. Every node holds the
// public protocol parameters, a local copy of the accumulator and the ledger,
// and gossips verified transactions to its peers.
type Node struct {
	ID        string
	Address   string
	Peers     map[string]string // Map of Node ID to its address
	server    *http.Server
	waitGroup *sync.WaitGroup

	// Local protocol state, guarded by stateMutex.
	stateMutex sync.Mutex
	params     *curvetree.SelRerandParameters
	pair       *curves.CurvePair
	tree       *curvetree.CurveTree
	ledger     *coin.Ledger

	// Announcement notifications for callers awaiting gossip.
	notifyMutex sync.Mutex
	notifyChans []chan string
}

// NewNode creates and initializes a new Node over the given protocol state.
func NewNode(id, address string, peers map[string]string, params *curvetree.SelRerandParameters, pair *curves.CurvePair, tree *curvetree.CurveTree, wg *sync.WaitGroup) *Node {
	return &Node{
		ID:        id,
		Address:   address,
		Peers:     peers,
		waitGroup: wg,
		params:    params,
		pair:      pair,
		tree:      tree,
		ledger:    coin.NewLedger(),
	}
}

// Ledger returns the node's ledger. Callers must not mutate it concurrently
// with message handling.
func (n *Node) Ledger() *coin.Ledger {
	return n.ledger
}

// messageHandler is the HTTP handler for receiving messages.
// It decodes the message envelope and then processes the payload based on its type.
func (n *Node) messageHandler(w http.ResponseWriter, r *http.Request) {
	var msg Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		log.Printf("[%s] Received a bad request: %v", n.ID, err)
		return
	}

	log.Printf("[%s] Received message of type '%s'", n.ID, msg.Type)

	switch msg.Type {
	case "mint_tx":
		var payload MintAnnouncement
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			log.Printf("[%s] Error unmarshalling MintAnnouncement: %v", n.ID, err)
			return
		}
		n.handleMint(payload)

	case "spend_tx":
		var payload SpendAnnouncement
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			log.Printf("[%s] Error unmarshalling SpendAnnouncement: %v", n.ID, err)
			return
		}
		n.handleSpend(payload)

	case "simple_text":
		var textPayload SimpleTextMessage
		if err := json.Unmarshal(msg.Payload, &textPayload); err != nil {
			log.Printf("[%s] Error unmarshalling SimpleTextMessage payload: %v", n.ID, err)
			return
		}
		log.Printf("    -> Text Message: '%s'", textPayload.Content)

	default:
		log.Printf("[%s] Received unknown message type: %s", n.ID, msg.Type)
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Message received")
}

// handleMint verifies an announced mint, folds the coin into its permissible
// form, inserts it into the local accumulator and records it in the ledger.
func (n *Node) handleMint(payload MintAnnouncement) {
	n.stateMutex.Lock()
	defer n.stateMutex.Unlock()

	if err := coin.VerifyMintTx(n.params, payload.Tx); err != nil {
		log.Printf("[%s] Rejected mint from %s: %v", n.ID, payload.SenderID, err)
		return
	}

	permissible, err := coin.CombineMintTx(n.params, n.pair, payload.Tx)
	if err != nil {
		log.Printf("[%s] Cannot combine mint from %s: %v", n.ID, payload.SenderID, err)
		return
	}
	index, err := n.tree.Insert(permissible.Coin)
	if err != nil {
		log.Printf("[%s] Cannot insert coin from %s: %v", n.ID, payload.SenderID, err)
		return
	}
	n.ledger.AppendMint(payload.Tx, fmt.Sprintf("%x", permissible.Coin.Bytes()))
	log.Printf("[%s] Accepted mint from %s at index %d", n.ID, payload.SenderID, index)
	n.notify("mint:" + payload.SenderID)
}

// handleSpend verifies an announced spend against the local accumulator root
// and appends it to the ledger, where tag collision detects double spends.
func (n *Node) handleSpend(payload SpendAnnouncement) {
	n.stateMutex.Lock()
	defer n.stateMutex.Unlock()

	root, err := n.tree.Root()
	if err != nil {
		log.Printf("[%s] Cannot compute accumulator root: %v", n.ID, err)
		return
	}
	if err := coin.VerifySpendTx(n.params, root, payload.Tx); err != nil {
		log.Printf("[%s] Rejected spend from %s: %v", n.ID, payload.SenderID, err)
		return
	}
	if err := n.ledger.AppendSpend(payload.Tx); err != nil {
		log.Printf("[%s] Rejected spend from %s: %v", n.ID, payload.SenderID, err)
		return
	}
	log.Printf("[%s] Accepted spend from %s, tag %s", n.ID, payload.SenderID, payload.Tx.TagKey())
	n.notify("spend:" + payload.SenderID)
}

// Notifications returns a channel that receives one string per accepted
// announcement, for callers that need to await gossip in tests or demos.
func (n *Node) Notifications() <-chan string {
	n.notifyMutex.Lock()
	defer n.notifyMutex.Unlock()
	ch := make(chan string, 16)
	n.notifyChans = append(n.notifyChans, ch)
	return ch
}

func (n *Node) notify(event string) {
	n.notifyMutex.Lock()
	defer n.notifyMutex.Unlock()
	for _, ch := range n.notifyChans {
		select {
		case ch <- event:
		default:
		}
	}
}

// BroadcastMint announces a mint transaction to every peer.
func (n *Node) BroadcastMint(tx *coin.MintTx) error {
	payload := MintAnnouncement{SenderID: n.ID, Tx: tx}
	return n.broadcast("mint_tx", payload)
}

// BroadcastSpend announces a spend transaction to every peer.
func (n *Node) BroadcastSpend(tx *coin.SpendTx) error {
	payload := SpendAnnouncement{SenderID: n.ID, Tx: tx}
	return n.broadcast("spend_tx", payload)
}

func (n *Node) broadcast(messageType string, payload interface{}) error {
	var firstErr error
	for targetID := range n.Peers {
		if targetID == n.ID {
			continue
		}
		if err := n.SendMessage(targetID, messageType, payload); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// StartServer starts the node's HTTP server in a new goroutine.
// It signals on the 'ready' channel once the server is actively listening.
func (n *Node) StartServer(ready chan<- struct{}) {
	mux := http.NewServeMux()
	mux.HandleFunc("/message", n.messageHandler)

	n.server = &http.Server{
		Addr:    n.Address,
		Handler: mux,
	}

	listener, err := net.Listen("tcp", n.Address)
	if err != nil {
		log.Fatalf("[%s] failed to listen: %v", n.ID, err)
	}

	n.waitGroup.Add(1)
	go func() {
		defer n.waitGroup.Done()
		log.Printf("[%s] Server starting on %s", n.ID, n.Address)

		// Signal that the server is up and ready
		ready <- struct{}{}

		if err := n.server.Serve(listener); err != http.ErrServerClosed {
			log.Fatalf("[%s] Server failed: %v", n.ID, err)
		}
		log.Printf("[%s] Server stopped.", n.ID)
	}()
}

// SendMessage sends a message to another node in the network.
// The payload can be any struct that is marshallable to JSON.
func (n *Node) SendMessage(targetID, messageType string, payload interface{}) error {
	targetAddress, ok := n.Peers[targetID]
	if !ok {
		return fmt.Errorf("peer '%s' not found in directory", targetID)
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %v", err)
	}

	msg := Message{
		Type:     messageType,
		Payload:  payloadBytes,
		SenderID: n.ID,
	}

	messageBytes, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message envelope: %v", err)
	}

	log.Printf("[%s] Sending message of type '%s' to %s at %s", n.ID, messageType, targetID, targetAddress)
	req, err := http.NewRequest("POST", "http://"+targetAddress+"/message", bytes.NewBuffer(messageBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("peer returned non-OK status: %s", resp.Status)
	}

	return nil
}
