package main

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/siegekeeper/engine/internal/model"
	"github.com/siegekeeper/engine/internal/snapshot"
	"github.com/siegekeeper/engine/pkg/core"
)

func runCommand(cmd string, args []string) error {
	switch cmd {
	case "create":
		if len(args) < 1 {
			return fmt.Errorf("create requires a campaign name")
		}
		return createCampaign(strings.Join(args, " "))

	case "export":
		if len(args) < 1 {
			return fmt.Errorf("export requires a campaign ID")
		}
		id, err := parseCampaignID(args[0])
		if err != nil {
			return err
		}
		outPath := ""
		if len(args) > 1 {
			outPath = args[1]
		}
		return exportCampaign(id, outPath)

	case "import":
		if len(args) < 1 {
			return fmt.Errorf("import requires a snapshot file path")
		}
		return importCampaign(args[0])

	case "clone":
		if len(args) < 1 {
			return fmt.Errorf("clone requires a campaign ID")
		}
		id, err := parseCampaignID(args[0])
		if err != nil {
			return err
		}
		return cloneCampaign(id)

	case "list":
		return listCampaigns()

	case "delete":
		if len(args) < 1 {
			return fmt.Errorf("delete requires a campaign ID")
		}
		id, err := parseCampaignID(args[0])
		if err != nil {
			return err
		}
		return deleteCampaign(id)

	case "touch":
		if len(args) < 1 {
			return fmt.Errorf("touch requires a campaign ID")
		}
		id, err := parseCampaignID(args[0])
		if err != nil {
			return err
		}
		return touchCampaign(id)

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func parseCampaignID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid campaign ID %q: %w", arg, err)
	}
	return uint(id), nil
}

func createCampaign(name string) error {
	campaign, err := model.CreateCampaign(dbManager.DB, name)
	if err != nil {
		return fmt.Errorf("error creating campaign: %w", err)
	}
	fmt.Printf("Created campaign %q with ID %d\n", campaign.Name, campaign.ID)
	return nil
}

func exportCampaign(campaignID uint, outPath string) error {
	txStart := time.Now()
	reader := snapshot.NewReader(dbManager.DB, Logger)

	doc, err := reader.Capture(context.Background(), campaignID)
	if err != nil {
		return err
	}

	docJSON, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling snapshot: %w", err)
	}

	if outPath == "" {
		outPath = fmt.Sprintf("%s_%s.json.gz", doc.Campaign.Name, txStart.Format("20060102_150405"))
		outPath = strings.ReplaceAll(outPath, " ", "_")
		outPath = strings.ReplaceAll(outPath, ":", "_")
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if strings.HasSuffix(outPath, ".gz") {
		gzWriter := gzip.NewWriter(f)
		defer func() { _ = gzWriter.Close() }()
		_, err = gzWriter.Write(docJSON)
	} else {
		_, err = f.Write(docJSON)
	}
	if err != nil {
		return fmt.Errorf("error writing snapshot: %w", err)
	}

	if metricsClient != nil {
		_ = metricsClient.WriteSnapshotOp("export", doc, time.Since(txStart))
	}

	fmt.Println("Wrote campaign snapshot to ", outPath)
	return nil
}

func importCampaign(path string) error {
	txStart := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening snapshot file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var src io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gzReader, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("error opening gzip stream: %w", err)
		}
		defer func() { _ = gzReader.Close() }()
		src = gzReader
	}

	docJSON, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("error reading snapshot file: %w", err)
	}

	doc := &core.Document{}
	if err := json.Unmarshal(docJSON, doc); err != nil {
		return fmt.Errorf("error parsing snapshot file: %w", err)
	}

	writer := snapshot.NewWriter(dbManager.DB, Logger)
	campaign, err := writer.Restore(context.Background(), doc)
	if err != nil {
		return err
	}

	saver.MarkModified(campaign.ID)
	if metricsClient != nil {
		_ = metricsClient.WriteSnapshotOp("import", doc, time.Since(txStart))
	}

	fmt.Printf("Restored %q into new campaign with ID %d\n", campaign.Name, campaign.ID)
	return nil
}

func cloneCampaign(campaignID uint) error {
	txStart := time.Now()
	reader := snapshot.NewReader(dbManager.DB, Logger)
	writer := snapshot.NewWriter(dbManager.DB, Logger)

	doc, err := reader.Capture(context.Background(), campaignID)
	if err != nil {
		return err
	}

	campaign, err := writer.Restore(context.Background(), doc)
	if err != nil {
		return err
	}

	saver.MarkModified(campaign.ID)
	if metricsClient != nil {
		_ = metricsClient.WriteSnapshotOp("clone", doc, time.Since(txStart))
	}

	fmt.Printf("Cloned campaign %d into new campaign with ID %d\n", campaignID, campaign.ID)
	return nil
}

func listCampaigns() error {
	campaigns, err := model.ListCampaigns(dbManager.DB)
	if err != nil {
		return fmt.Errorf("error listing campaigns: %w", err)
	}

	if len(campaigns) == 0 {
		fmt.Println("No campaigns found.")
		return nil
	}

	fmt.Printf("%-8s %-40s %s\n", "ID", "NAME", "LAST MODIFIED")
	for _, c := range campaigns {
		fmt.Printf("%-8d %-40s %s\n", c.ID, c.Name, c.LastModified.Format(time.RFC3339))
	}
	return nil
}

func deleteCampaign(campaignID uint) error {
	if err := model.DeleteCampaign(dbManager.DB, campaignID); err != nil {
		return fmt.Errorf("error deleting campaign %d: %w", campaignID, err)
	}
	fmt.Printf("Deleted campaign %d\n", campaignID)
	return nil
}

func touchCampaign(campaignID uint) error {
	campaign := model.Campaign{}
	campaign.ID = campaignID
	if err := campaign.Get(dbManager.DB); err != nil {
		return fmt.Errorf("error getting campaign %d: %w", campaignID, err)
	}

	if err := campaign.Touch(dbManager.DB, time.Now().UTC()); err != nil {
		return fmt.Errorf("error touching campaign %d: %w", campaignID, err)
	}

	if metricsClient != nil {
		_ = metricsClient.WriteTouch(campaignID)
	}

	fmt.Printf("Updated last-modified for campaign %d\n", campaignID)
	return nil
}
