package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/itiky/notes-sync/config"
	"github.com/itiky/notes-sync/logger"
	"github.com/itiky/notes-sync/model"
	"github.com/itiky/notes-sync/service/client"
	"github.com/itiky/notes-sync/service/gql"
)

// session keeps the command dependencies, a new session id is generated per process.
type session struct {
	cfg        *config.Config
	logger     *zap.Logger
	controller *client.Controller
}

// newSession loads the config and builds the Controller.
func newSession(cmd *cobra.Command) (*session, error) {
	cfgPath, err := cmd.Flags().GetString(FlagConfig)
	if err != nil {
		return nil, fmt.Errorf("%s flag: %w", FlagConfig, err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	// Flags override
	if endpoint, _ := cmd.Flags().GetString(FlagEndpoint); endpoint != "" {
		cfg.Backend.Endpoint = endpoint
	}
	if apiKey, _ := cmd.Flags().GetString(FlagApiKey); apiKey != "" {
		cfg.Backend.ApiKey = apiKey
	}
	if level, _ := cmd.Flags().GetString(FlagLogLevel); level != "" {
		cfg.Log.Level = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Production)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	policies, err := buildPolicies(cfg.Sync)
	if err != nil {
		return nil, err
	}

	gqlOpts := []gql.ClientOption{
		gql.WithApiKey(cfg.Backend.ApiKey),
		gql.WithLogger(log),
	}
	if cfg.Backend.RealtimeEndpoint != "" {
		gqlOpts = append(gqlOpts, gql.WithRealtimeEndpoint(cfg.Backend.RealtimeEndpoint))
	}
	gqlClient, err := gql.NewClient(cfg.Backend.Endpoint, gqlOpts...)
	if err != nil {
		return nil, fmt.Errorf("GraphQL client: %w", err)
	}

	sessionId := model.NewSessionId()
	controller, err := client.NewController(
		sessionId,
		client.NewGQLBackend(gqlClient),
		client.WithPolicies(policies),
		client.WithLogger(log),
		client.WithMonitorPeriod(cfg.Sync.MonitorPeriod),
		client.WithNotifier(client.NotifierFunc(func(msg string) {
			cmd.PrintErrln(msg)
		})),
	)
	if err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}
	log.Debug("session created", zap.String(logger.FieldSession, sessionId.String()))

	return &session{
		cfg:        cfg,
		logger:     log,
		controller: controller,
	}, nil
}

// Close flushes the logger.
func (s *session) Close() {
	_ = s.logger.Sync()
}

// buildPolicies converts the config to client.Policies.
func buildPolicies(cfg config.SyncConfig) (client.Policies, error) {
	rollback := client.NoRollback
	if cfg.Rollback {
		rollback = client.RollbackOnFailure
	}

	policies := client.Policies{}
	for opType, modeStr := range map[model.OperationType]string{
		model.CreateOperationType: cfg.Create,
		model.DeleteOperationType: cfg.Delete,
		model.UpdateOperationType: cfg.Update,
	} {
		mode, err := client.ParseUpdateMode(modeStr)
		if err != nil {
			return nil, fmt.Errorf("sync.%s: %w", opType, err)
		}
		policies[opType] = client.Policy{Update: mode, Rollback: rollback}
	}

	return policies, nil
}
