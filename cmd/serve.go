package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/khlin/tabgen/engine"
	"github.com/khlin/tabgen/midi"
	"github.com/khlin/tabgen/model"
	"github.com/khlin/tabgen/store"
)

const version = "1.0.0"

var appStore *store.Store

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the transcription HTTP API",
	Long:  `Runs the transcription HTTP API.`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func initConfig() {
	viper.SetDefault("port", 8080)
	viper.SetDefault("data_dir", "./data")
	viper.SetDefault("media_dir", ".")
	viper.SetDefault("cors_origins", "*")
	viper.SetEnvPrefix("tabgen")
	viper.AutomaticEnv()
}

// OpenStore initializes the shared record store from config. Exposed for
// the e2e tests, which call handlers without going through serve().
func OpenStore() error {
	s, err := store.Open(viper.GetString("data_dir"))
	if err != nil {
		return err
	}
	appStore = s
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg})
}

func HandleStatus(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(model.StatusResponse{
		Status:  "running",
		Name:    "tabgen",
		Version: version,
	})
}

func HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	reqBody, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	var input model.TranscribeRequestBody
	if err := json.Unmarshal(reqBody, &input); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse request body: "+err.Error())
		return
	}
	if input.MidiPath == "" {
		writeError(w, http.StatusBadRequest, "midi_path is required")
		return
	}
	if input.OutputType == "" {
		input.OutputType = model.OutputChordSheet
	}

	path := input.MidiPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(viper.GetString("media_dir"), path)
	}

	perf, err := midi.ReadPerformance(path)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := engine.Transcribe(perf, engine.Options{
		OutputType: input.OutputType,
		KeyOffset:  input.KeyOffset,
		Title:      input.Title,
	})
	switch {
	case errors.Is(err, engine.ErrUnsupportedFormat),
		errors.Is(err, engine.ErrNoNotes):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rec := appStore.Add(res, input.MidiPath)
	json.NewEncoder(w).Encode(rec)
}

func HandleHistory(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(appStore.History())
}

func HandleFavorites(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(appStore.Favorites())
}

func HandleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var input model.FavoriteRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse request body: "+err.Error())
		return
	}
	rec, err := appStore.AddFavorite(input.RecordID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	json.NewEncoder(w).Encode(rec)
}

func HandleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	appStore.RemoveFavorite(mux.Vars(r)["id"])
	json.NewEncoder(w).Encode(appStore.Favorites())
}

func newRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/api/status", HandleStatus).Methods("GET")
	router.HandleFunc("/api/transcribe", HandleTranscribe).Methods("POST")
	router.HandleFunc("/api/history", HandleHistory).Methods("GET")
	router.HandleFunc("/api/favorites", HandleFavorites).Methods("GET")
	router.HandleFunc("/api/favorites", HandleAddFavorite).Methods("POST")
	router.HandleFunc("/api/favorites/{id}", HandleRemoveFavorite).Methods("DELETE")

	c := cors.New(cors.Options{
		AllowedOrigins: viper.GetStringSlice("cors_origins"),
		AllowedMethods: []string{"GET", "POST", "DELETE"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(router)
}

func serve() {
	initConfig()
	cobra.CheckErr(OpenStore())

	addr := fmt.Sprintf(":%d", viper.GetInt("port"))
	slog.Info("serving", "addr", addr)
	log.Fatal(http.ListenAndServe(addr, newRouter()))
}
