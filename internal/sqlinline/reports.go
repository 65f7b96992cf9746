package sqlinline

const QDonorGivingStats = `--sql 30e578de-46c2-4f2f-ab2a-996b01888690
select count(*),
       cast(coalesce(sum(amount_cents), 0) as bigint),
       min(received_at),
       max(received_at)
from donations
where donor_id = $1;
`

const QMajorGifts = `--sql f6044d0b-b295-4fb4-a53a-a3afbbe5d5db
select id, name, email, donor_type, tier, total_given_cents, last_donation_at
from donors
where total_given_cents > $1
order by total_given_cents desc, id asc;
`

const QCampaignTotals = `--sql 025501f4-e935-44ba-b1a9-61e4c72befe2
select cast(coalesce(sum(amount_cents), 0) as bigint),
       count(*),
       count(distinct donor_id),
       cast(coalesce(max(amount_cents), 0) as bigint),
       count(distinct case when donation_type = 'recurring' then donor_id end)
from donations
where campaign = $1;
`

const QDonorsReceivedBetween = `--sql 3bab4217-3d8b-4e97-994f-a4a69549be3a
select distinct donor_id
from donations
where received_at >= $1
  and received_at < $2
order by donor_id;
`

const QDonorsReceivedBefore = `--sql 39cb64dd-a6b6-4a75-b49c-70e31f0b0d93
select distinct donor_id
from donations
where received_at < $1
order by donor_id;
`

const QTierTotals = `--sql b9c6ca9a-2388-4979-823d-175e2de7f7f3
select tier, count(*), cast(coalesce(sum(total_given_cents), 0) as bigint)
from donors
group by tier;
`

const QOrphanCampaigns = `--sql 69b38d5c-36e1-4cbc-b5cd-f73f163a31f4
select d.campaign, count(*), cast(coalesce(sum(d.amount_cents), 0) as bigint)
from donations d
left join campaigns c on c.name = d.campaign
where c.id is null
group by d.campaign
order by d.campaign;
`
